// Package datamodel contains the persistence models shared by the
// repositories, configured for GORM.
package datamodel

import "time"

type Company struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Company) TableName() string {
	return "companies"
}
