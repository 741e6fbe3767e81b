package repository

import (
	"carhub/internal/models"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) IsFavorite(userID, carID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND car_id = ?", userID, carID).Count(&n).Error
	return n > 0, err
}

func (r *FavoriteRepository) Add(userID, carID uint) error {
	return r.db.Create(&models.Favorite{UserID: userID, CarID: carID}).Error
}

func (r *FavoriteRepository) Remove(userID, carID uint) error {
	return r.db.Where("user_id = ? AND car_id = ?", userID, carID).
		Delete(&models.Favorite{}).Error
}

func (r *FavoriteRepository) ListByUser(userID uint, limit, offset int) ([]models.Favorite, error) {
	if limit < 1 || limit > 100 {
		limit = 12
	}
	var list []models.Favorite
	err := r.db.Where("user_id = ?", userID).
		Preload("Car").Preload("Car.Images").Preload("Car.Owner").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
