package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/comment"
	"github.com/frahmantamala/peer-recognition/internal/post"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) comment.Repository {
	return &CommentRepository{db: db}
}

const viewSelect = `comments.id, comments.post_id, comments.author_id, comments.content,
	comments.total_points, comments.created_at,
	authors.full_name AS author_name,
	authors.company_id AS author_company_id,
	(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) AS like_count`

func (r *CommentRepository) GetByID(ctx context.Context, commentID int64) (*comment.View, error) {
	var view comment.View
	err := r.db.WithContext(ctx).
		Table("comments").
		Select(viewSelect).
		Joins("JOIN users authors ON authors.id = comments.author_id").
		Where("comments.id = ?", commentID).
		Take(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCommentNotFound
		}
		return nil, err
	}

	if err := r.attachRecipients(ctx, []*comment.View{&view}); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, p internal.Pagination) ([]*comment.View, error) {
	var views []*comment.View
	err := r.db.WithContext(ctx).
		Table("comments").
		Select(viewSelect).
		Joins("JOIN users authors ON authors.id = comments.author_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&views).Error
	if err != nil {
		return nil, err
	}

	if err := r.attachRecipients(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

type recipientRow struct {
	CommentID int64  `gorm:"column:comment_id"`
	UserID    int64  `gorm:"column:recipient_id"`
	FullName  string `gorm:"column:full_name"`
	Points    int64  `gorm:"column:points_amount"`
}

func (r *CommentRepository) attachRecipients(ctx context.Context, views []*comment.View) error {
	if len(views) == 0 {
		return nil
	}

	byID := make(map[int64]*comment.View, len(views))
	commentIDs := make([]int64, 0, len(views))
	for _, v := range views {
		v.Recipients = []post.RecipientInfo{}
		byID[v.ID] = v
		commentIDs = append(commentIDs, v.ID)
	}

	var rows []recipientRow
	err := r.db.WithContext(ctx).
		Table("points_recipients").
		Select(`points_transactions.comment_id, points_recipients.recipient_id,
			points_recipients.points_amount, recipients.full_name`).
		Joins("JOIN points_transactions ON points_transactions.id = points_recipients.transaction_id").
		Joins("JOIN users recipients ON recipients.id = points_recipients.recipient_id").
		Where("points_transactions.comment_id IN ?", commentIDs).
		Order("points_recipients.id ASC").
		Find(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		view, ok := byID[row.CommentID]
		if !ok {
			continue
		}
		view.Recipients = append(view.Recipients, post.RecipientInfo{
			UserID:   row.UserID,
			FullName: row.FullName,
			Points:   row.Points,
		})
	}
	return nil
}
