package datamodel

import "time"

const (
	TransactionTypeRecognition        = "recognition"
	TransactionTypeAdminAdjustment    = "admin_adjustment"
	TransactionTypeInitialAllocation  = "initial_allocation"
	TransactionTypeCommentRecognition = "comment_recognition"
)

// PointsTransaction is one ledger entry. SenderID is NULL for
// system-originated allocations.
type PointsTransaction struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	SenderID        *int64    `json:"sender_id,omitempty" gorm:"column:sender_id;index"`
	TransactionType string    `json:"transaction_type" gorm:"column:transaction_type;not null;check:transaction_type IN ('recognition','admin_adjustment','initial_allocation','comment_recognition')"`
	PostID          *int64    `json:"post_id,omitempty" gorm:"column:post_id;index"`
	CommentID       *int64    `json:"comment_id,omitempty" gorm:"column:comment_id;index"`
	Points          int64     `json:"points" gorm:"not null;check:points > 0"`
	AdminNotes      *string   `json:"admin_notes,omitempty" gorm:"column:admin_notes"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`

	Recipients []PointsRecipient `json:"recipients,omitempty" gorm:"foreignKey:TransactionID"`
}

func (PointsTransaction) TableName() string {
	return "points_transactions"
}

type PointsRecipient struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	TransactionID int64     `json:"transaction_id" gorm:"column:transaction_id;not null;index"`
	RecipientID   int64     `json:"recipient_id" gorm:"column:recipient_id;not null;index"`
	PointsAmount  int64     `json:"points_amount" gorm:"column:points_amount;not null;check:points_amount > 0"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (PointsRecipient) TableName() string {
	return "points_recipients"
}
