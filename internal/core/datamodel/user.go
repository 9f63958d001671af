package datamodel

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	FullName         string     `json:"full_name" gorm:"column:full_name;not null"`
	Email            string     `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash     string     `json:"-" gorm:"column:password_hash;not null"`
	CompanyID        int64      `json:"company_id" gorm:"column:company_id;not null;index"`
	Role             string     `json:"role" gorm:"not null;default:member;check:role IN ('admin','member')"`
	GiveablePoints   int64      `json:"giveable_points" gorm:"column:giveable_points;not null;default:0;check:giveable_points >= 0"`
	RedeemablePoints int64      `json:"redeemable_points" gorm:"column:redeemable_points;not null;default:0;check:redeemable_points >= 0"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" gorm:"column:deleted_at"`
	CreatedAt        time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.DeletedAt == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
