package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/post"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) post.Repository {
	return &PostRepository{db: db}
}

const viewSelect = `posts.id, posts.author_id, posts.content, posts.total_points, posts.created_at,
	authors.full_name AS author_name,
	authors.company_id AS author_company_id,
	(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS like_count,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count`

func (r *PostRepository) GetByID(ctx context.Context, postID int64) (*post.View, error) {
	var view post.View
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(viewSelect).
		Joins("JOIN users authors ON authors.id = posts.author_id").
		Where("posts.id = ?", postID).
		Take(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPostNotFound
		}
		return nil, err
	}

	if err := r.attachRecipients(ctx, []*post.View{&view}); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *PostRepository) ListByCompany(ctx context.Context, companyID int64, p internal.Pagination) ([]*post.View, error) {
	var views []*post.View
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(viewSelect).
		Joins("JOIN users authors ON authors.id = posts.author_id").
		Where("authors.company_id = ?", companyID).
		Order("posts.created_at DESC, posts.id DESC").
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
	PostID   int64  `gorm:"column:post_id"`
	UserID   int64  `gorm:"column:recipient_id"`
	FullName string `gorm:"column:full_name"`
	Points   int64  `gorm:"column:points_amount"`
}

// attachRecipients loads the recognition recipients of the given posts in
// one query and groups them onto the views.
func (r *PostRepository) attachRecipients(ctx context.Context, views []*post.View) error {
	if len(views) == 0 {
		return nil
	}

	byID := make(map[int64]*post.View, len(views))
	postIDs := make([]int64, 0, len(views))
	for _, v := range views {
		v.Recipients = []post.RecipientInfo{}
		byID[v.ID] = v
		postIDs = append(postIDs, v.ID)
	}

	var rows []recipientRow
	err := r.db.WithContext(ctx).
		Table("points_recipients").
		Select(`points_transactions.post_id, points_recipients.recipient_id,
			points_recipients.points_amount, recipients.full_name`).
		Joins("JOIN points_transactions ON points_transactions.id = points_recipients.transaction_id").
		Joins("JOIN users recipients ON recipients.id = points_recipients.recipient_id").
		Where("points_transactions.post_id IN ?", postIDs).
		Order("points_recipients.id ASC").
		Find(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		view, ok := byID[row.PostID]
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
