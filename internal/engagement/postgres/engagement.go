package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
	"github.com/frahmantamala/peer-recognition/internal/engagement"
)

type EngagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) engagement.Repository {
	return &EngagementRepository{db: db}
}

func (r *EngagementRepository) GetPostTarget(ctx context.Context, postID int64) (*engagement.Target, error) {
	var target engagement.Target
	err := r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id, authors.company_id").
		Joins("JOIN users authors ON authors.id = posts.author_id").
		Where("posts.id = ?", postID).
		Take(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPostNotFound
		}
		return nil, err
	}
	return &target, nil
}

func (r *EngagementRepository) GetCommentTarget(ctx context.Context, commentID int64) (*engagement.Target, error) {
	var target engagement.Target
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, authors.company_id").
		Joins("JOIN users authors ON authors.id = comments.author_id").
		Where("comments.id = ?", commentID).
		Take(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCommentNotFound
		}
		return nil, err
	}
	return &target, nil
}

func (r *EngagementRepository) InsertPostLike(ctx context.Context, postID, userID int64) error {
	like := datamodel.PostLike{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrAlreadyLiked
		}
		return err
	}
	return nil
}

func (r *EngagementRepository) DeletePostLike(ctx context.Context, postID, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&datamodel.PostLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNotLiked
	}
	return nil
}

func (r *EngagementRepository) InsertCommentLike(ctx context.Context, commentID, userID int64) error {
	like := datamodel.CommentLike{CommentID: commentID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrAlreadyLiked
		}
		return err
	}
	return nil
}

func (r *EngagementRepository) DeleteCommentLike(ctx context.Context, commentID, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&datamodel.CommentLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNotLiked
	}
	return nil
}

func (r *EngagementRepository) CountPostLikes(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&datamodel.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *EngagementRepository) CountCommentLikes(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&datamodel.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}
