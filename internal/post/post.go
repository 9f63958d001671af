// Package post serves the recognition feed: company-scoped post listings
// enriched with author, engagement counts, and the points recipients of the
// recognition each post carries. Writing a post goes through the ledger.
package post

import (
	"context"
	"time"

	"github.com/frahmantamala/peer-recognition/internal"
)

// RecipientInfo is one recipient of a post's recognition, with the points
// they received from it.
type RecipientInfo struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Points   int64  `json:"points"`
}

// View is a feed-ready post: the row plus author identity, engagement
// counts, and its recognition recipients.
type View struct {
	ID              int64           `json:"id" gorm:"column:id"`
	AuthorID        int64           `json:"author_id" gorm:"column:author_id"`
	AuthorName      string          `json:"author_name" gorm:"column:author_name"`
	AuthorCompanyID int64           `json:"-" gorm:"column:author_company_id"`
	Content         string          `json:"content" gorm:"column:content"`
	TotalPoints     int64           `json:"total_points" gorm:"column:total_points"`
	LikeCount       int64           `json:"like_count" gorm:"column:like_count"`
	CommentCount    int64           `json:"comment_count" gorm:"column:comment_count"`
	CreatedAt       time.Time       `json:"created_at" gorm:"column:created_at"`
	Recipients      []RecipientInfo `json:"recipients" gorm:"-"`
}

type Repository interface {
	GetByID(ctx context.Context, postID int64) (*View, error)
	ListByCompany(ctx context.Context, companyID int64, p internal.Pagination) ([]*View, error)
}
