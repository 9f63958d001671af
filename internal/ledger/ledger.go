// Package ledger implements the points ledger: every balance change is
// recorded as a points transaction with one allocation row per recipient,
// and balances move only inside a single transactional unit of work.
package ledger

import (
	"context"

	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
)

const (
	InitialGiveablePoints = 50

	MinPointsPerRecognition = 1
	MaxPointsPerRecognition = 100

	MaxPostLength    = 1000
	MaxCommentLength = 500
)

// Member is the slice of a user the ledger needs for eligibility checks.
type Member struct {
	ID               int64
	CompanyID        int64
	Role             string
	GiveablePoints   int64
	RedeemablePoints int64
	Deleted          bool
}

func (m *Member) IsAdmin() bool {
	return m.Role == datamodel.RoleAdmin
}

// Repository is the transactional storage surface of the ledger engine.
// WithinTx hands the callback a Repository bound to one database
// transaction; every mutation during a ledger operation goes through it.
type Repository interface {
	WithinTx(ctx context.Context, fn func(Repository) error) error

	GetMember(ctx context.Context, userID int64) (*Member, error)
	GetPostAuthor(ctx context.Context, postID int64) (*Member, error)

	// CreateMember inserts the user row; a duplicate email surfaces as
	// ErrEmailTaken.
	CreateMember(ctx context.Context, user *datamodel.User) error

	CreatePost(ctx context.Context, post *datamodel.Post) error
	CreateComment(ctx context.Context, comment *datamodel.Comment) error
	CreateTransaction(ctx context.Context, tx *datamodel.PointsTransaction) error
	CreateRecipients(ctx context.Context, recipients []datamodel.PointsRecipient) error

	// DebitGiveable is a conditional atomic update guarded by
	// giveable_points >= amount; it returns ErrInsufficientBalance when the
	// guard rejects the debit.
	DebitGiveable(ctx context.Context, userID, amount int64) error
	CreditGiveable(ctx context.Context, userID, amount int64) error
	CreditRedeemable(ctx context.Context, userID, amount int64) error
	// AdjustGiveableClamped applies delta and floors the balance at zero in
	// one update expression.
	AdjustGiveableClamped(ctx context.Context, userID, delta int64) error
}
