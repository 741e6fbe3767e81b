package models

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_car" json:"user_id"`
	CarID     uint      `gorm:"not null;uniqueIndex:idx_favorites_user_car" json:"car_id"`
	CreatedAt time.Time `json:"created_at"`

	Car *Car `gorm:"foreignKey:CarID" json:"car,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
