package datamodel

import "time"

type Post struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"column:author_id;not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	TotalPoints int64     `json:"total_points" gorm:"column:total_points;not null;check:total_points > 0"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

type Comment struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	PostID      int64     `json:"post_id" gorm:"column:post_id;not null;index"`
	AuthorID    int64     `json:"author_id" gorm:"column:author_id;not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	TotalPoints int64     `json:"total_points" gorm:"column:total_points;not null;default:0;check:total_points >= 0"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
