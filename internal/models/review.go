package models

import "time"

type Review struct {
	ID        uint      `json:"review_id" gorm:"column:review_id;primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null"` // 1-5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	Username string `json:"username,omitempty" gorm:"->;-:migration"`
}
