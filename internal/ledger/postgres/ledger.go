package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
	"github.com/frahmantamala/peer-recognition/internal/ledger"
)

// LedgerRepository implements ledger.Repository using GORM.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithinTx runs fn with a repository bound to one database transaction;
// any error from fn rolls everything back.
func (r *LedgerRepository) WithinTx(ctx context.Context, fn func(ledger.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerRepository{db: tx})
	})
}

func (r *LedgerRepository) GetMember(ctx context.Context, userID int64) (*ledger.Member, error) {
	var user datamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return memberFromUser(&user), nil
}

func (r *LedgerRepository) GetPostAuthor(ctx context.Context, postID int64) (*ledger.Member, error) {
	var user datamodel.User
	err := r.db.WithContext(ctx).
		Joins("JOIN posts ON posts.author_id = users.id").
		Where("posts.id = ?", postID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPostNotFound
		}
		return nil, err
	}
	return memberFromUser(&user), nil
}

func (r *LedgerRepository) CreateMember(ctx context.Context, user *datamodel.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *LedgerRepository) CreatePost(ctx context.Context, post *datamodel.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *LedgerRepository) CreateComment(ctx context.Context, comment *datamodel.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *LedgerRepository) CreateTransaction(ctx context.Context, tx *datamodel.PointsTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *LedgerRepository) CreateRecipients(ctx context.Context, recipients []datamodel.PointsRecipient) error {
	if len(recipients) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&recipients).Error
}

// DebitGiveable decrements the sender balance only while it stays
// non-negative. Zero affected rows means a concurrent spend won the race
// (or the balance was never sufficient).
func (r *LedgerRepository) DebitGiveable(ctx context.Context, userID, amount int64) error {
	res := r.db.WithContext(ctx).Model(&datamodel.User{}).
		Where("id = ? AND giveable_points >= ?", userID, amount).
		Update("giveable_points", gorm.Expr("giveable_points - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrInsufficientBalance
	}
	return nil
}

func (r *LedgerRepository) CreditGiveable(ctx context.Context, userID, amount int64) error {
	return r.creditColumn(ctx, userID, "giveable_points", amount)
}

func (r *LedgerRepository) CreditRedeemable(ctx context.Context, userID, amount int64) error {
	return r.creditColumn(ctx, userID, "redeemable_points", amount)
}

func (r *LedgerRepository) creditColumn(ctx context.Context, userID int64, column string, amount int64) error {
	res := r.db.WithContext(ctx).Model(&datamodel.User{}).
		Where("id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// AdjustGiveableClamped floors the result at zero inside the update
// expression, so the stored balance can never go negative regardless of
// delta. CASE keeps the statement portable between PostgreSQL and the
// SQLite used in tests.
func (r *LedgerRepository) AdjustGiveableClamped(ctx context.Context, userID, delta int64) error {
	res := r.db.WithContext(ctx).Model(&datamodel.User{}).
		Where("id = ?", userID).
		Update("giveable_points",
			gorm.Expr("CASE WHEN giveable_points + ? < 0 THEN 0 ELSE giveable_points + ? END", delta, delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func memberFromUser(user *datamodel.User) *ledger.Member {
	return &ledger.Member{
		ID:               user.ID,
		CompanyID:        user.CompanyID,
		Role:             user.Role,
		GiveablePoints:   user.GiveablePoints,
		RedeemablePoints: user.RedeemablePoints,
		Deleted:          user.DeletedAt != nil,
	}
}
