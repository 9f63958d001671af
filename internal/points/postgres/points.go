package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/points"
)

type PointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) points.Repository {
	return &PointsRepository{db: db}
}

func (r *PointsRepository) GetBalance(ctx context.Context, userID int64) (*points.Balance, error) {
	var balance points.Balance
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id, company_id, giveable_points, redeemable_points").
		Where("id = ?", userID).
		Take(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &balance, nil
}

const viewSelect = `points_transactions.id, points_transactions.sender_id,
	points_transactions.transaction_type, points_transactions.post_id,
	points_transactions.comment_id, points_transactions.points,
	points_transactions.admin_notes, points_transactions.created_at,
	senders.full_name AS sender_name`

func (r *PointsRepository) historyQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("points_transactions").
		Select(viewSelect).
		Joins("LEFT JOIN users senders ON senders.id = points_transactions.sender_id").
		Order("points_transactions.created_at DESC, points_transactions.id DESC")
}

func (r *PointsRepository) ListSent(ctx context.Context, userID int64, p internal.Pagination) ([]*points.TransactionView, error) {
	var views []*points.TransactionView
	err := r.historyQuery(ctx).
		Where("points_transactions.sender_id = ?", userID).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return views, r.attachRecipients(ctx, views)
}

func (r *PointsRepository) ListReceived(ctx context.Context, userID int64, p internal.Pagination) ([]*points.TransactionView, error) {
	var views []*points.TransactionView
	err := r.historyQuery(ctx).
		Where(`points_transactions.id IN (
			SELECT transaction_id FROM points_recipients WHERE recipient_id = ?)`, userID).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return views, r.attachRecipients(ctx, views)
}

func (r *PointsRepository) ListByCompany(ctx context.Context, companyID int64, p internal.Pagination) ([]*points.TransactionView, error) {
	var views []*points.TransactionView
	err := r.historyQuery(ctx).
		Where(`senders.company_id = ? OR points_transactions.id IN (
			SELECT pr.transaction_id FROM points_recipients pr
			JOIN users recipients ON recipients.id = pr.recipient_id
			WHERE recipients.company_id = ?)`, companyID, companyID).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return views, r.attachRecipients(ctx, views)
}

type recipientRow struct {
	TransactionID int64  `gorm:"column:transaction_id"`
	UserID        int64  `gorm:"column:recipient_id"`
	FullName      string `gorm:"column:full_name"`
	Points        int64  `gorm:"column:points_amount"`
}

func (r *PointsRepository) attachRecipients(ctx context.Context, views []*points.TransactionView) error {
	if len(views) == 0 {
		return nil
	}

	byID := make(map[int64]*points.TransactionView, len(views))
	txIDs := make([]int64, 0, len(views))
	for _, v := range views {
		v.Recipients = []points.TransactionRecipient{}
		byID[v.ID] = v
		txIDs = append(txIDs, v.ID)
	}

	var rows []recipientRow
	err := r.db.WithContext(ctx).
		Table("points_recipients").
		Select(`points_recipients.transaction_id, points_recipients.recipient_id,
			points_recipients.points_amount, recipients.full_name`).
		Joins("JOIN users recipients ON recipients.id = points_recipients.recipient_id").
		Where("points_recipients.transaction_id IN ?", txIDs).
		Order("points_recipients.id ASC").
		Find(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		view, ok := byID[row.TransactionID]
		if !ok {
			continue
		}
		view.Recipients = append(view.Recipients, points.TransactionRecipient{
			UserID:   row.UserID,
			FullName: row.FullName,
			Points:   row.Points,
		})
	}
	return nil
}
