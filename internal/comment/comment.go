// Package comment serves a post's comment thread. Writing a comment, with
// or without points, goes through the ledger.
package comment

import (
	"context"
	"time"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/post"
)

// View is a thread-ready comment: the row plus author identity, like count,
// and the recipients of any points the comment distributed.
type View struct {
	ID              int64                `json:"id" gorm:"column:id"`
	PostID          int64                `json:"post_id" gorm:"column:post_id"`
	AuthorID        int64                `json:"author_id" gorm:"column:author_id"`
	AuthorName      string               `json:"author_name" gorm:"column:author_name"`
	AuthorCompanyID int64                `json:"-" gorm:"column:author_company_id"`
	Content         string               `json:"content" gorm:"column:content"`
	TotalPoints     int64                `json:"total_points" gorm:"column:total_points"`
	LikeCount       int64                `json:"like_count" gorm:"column:like_count"`
	CreatedAt       time.Time            `json:"created_at" gorm:"column:created_at"`
	Recipients      []post.RecipientInfo `json:"recipients" gorm:"-"`
}

type Repository interface {
	GetByID(ctx context.Context, commentID int64) (*View, error)
	// ListByPost returns one window of the thread in chronological order.
	ListByPost(ctx context.Context, postID int64, p internal.Pagination) ([]*View, error)
}
