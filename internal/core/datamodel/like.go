package datamodel

import "time"

// PostLike and CommentLike are unique per (target, user); the constraint
// is what serializes concurrent duplicate likes.
type PostLike struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	PostID    int64     `json:"post_id" gorm:"column:post_id;not null;uniqueIndex:idx_post_user_like"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

type CommentLike struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CommentID int64     `json:"comment_id" gorm:"column:comment_id;not null;uniqueIndex:idx_comment_user_like"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_comment_user_like"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
