// Package points exposes the read side of the ledger: balances and
// transaction history. History ordering is newest first with the id as a
// tiebreaker so pagination never reshuffles same-timestamp rows.
package points

import (
	"context"
	"time"

	"github.com/frahmantamala/peer-recognition/internal"
)

// Balance is a user's current point balances.
type Balance struct {
	UserID           int64 `json:"user_id" gorm:"column:id"`
	CompanyID        int64 `json:"-" gorm:"column:company_id"`
	GiveablePoints   int64 `json:"giveable_points" gorm:"column:giveable_points"`
	RedeemablePoints int64 `json:"redeemable_points" gorm:"column:redeemable_points"`
}

// TransactionRecipient is one allocation row of a history entry.
type TransactionRecipient struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Points   int64  `json:"points"`
}

// TransactionView is one history entry with its sender resolved and all
// allocation rows attached.
type TransactionView struct {
	ID              int64                  `json:"id" gorm:"column:id"`
	SenderID        *int64                 `json:"sender_id,omitempty" gorm:"column:sender_id"`
	SenderName      *string                `json:"sender_name,omitempty" gorm:"column:sender_name"`
	TransactionType string                 `json:"transaction_type" gorm:"column:transaction_type"`
	PostID          *int64                 `json:"post_id,omitempty" gorm:"column:post_id"`
	CommentID       *int64                 `json:"comment_id,omitempty" gorm:"column:comment_id"`
	Points          int64                  `json:"points" gorm:"column:points"`
	AdminNotes      *string                `json:"admin_notes,omitempty" gorm:"column:admin_notes"`
	CreatedAt       time.Time              `json:"created_at" gorm:"column:created_at"`
	Recipients      []TransactionRecipient `json:"recipients" gorm:"-"`
}

type Repository interface {
	GetBalance(ctx context.Context, userID int64) (*Balance, error)
	// ListSent returns transactions the user initiated.
	ListSent(ctx context.Context, userID int64, p internal.Pagination) ([]*TransactionView, error)
	// ListReceived returns transactions with an allocation row for the user,
	// initial allocations included.
	ListReceived(ctx context.Context, userID int64, p internal.Pagination) ([]*TransactionView, error)
	// ListByCompany returns every transaction whose sender or any recipient
	// belongs to the company.
	ListByCompany(ctx context.Context, companyID int64, p internal.Pagination) ([]*TransactionView, error)
}
