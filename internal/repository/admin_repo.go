package repository

import (
	"time"

	"carhub/internal/domain"
	"carhub/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalDealers        int64 `json:"total_dealers"`
	TotalAdmins         int64 `json:"total_admins"`
	ActiveUsers         int64 `json:"active_users"`
	RecentRegistrations int64 `json:"recent_registrations"`
	TotalCars           int64 `json:"total_cars"`
	ActiveCars          int64 `json:"active_cars"`
	PendingCars         int64 `json:"pending_cars"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	r.db.Model(&models.User{}).Where("role = ?", domain.RoleUser).Count(&s.TotalUsers)
	r.db.Model(&models.User{}).Where("role = ?", domain.RoleDealer).Count(&s.TotalDealers)
	r.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&s.TotalAdmins)
	r.db.Model(&models.User{}).Where("is_active = ?", true).Count(&s.ActiveUsers)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	r.db.Model(&models.User{}).Where("created_at >= ?", thirtyDaysAgo).Count(&s.RecentRegistrations)

	r.db.Model(&models.Car{}).Count(&s.TotalCars)
	r.db.Model(&models.Car{}).Where("status = ?", domain.CarStatusActive).Count(&s.ActiveCars)
	r.db.Model(&models.Car{}).Where("status = ?", domain.CarStatusPending).Count(&s.PendingCars)
	return &s, nil
}

// ListUsers returns users with search, role and active filters, paginated.
func (r *AdminRepository) ListUsers(search, role string, active *bool, page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	q := r.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	var total int64
	q.Count(&total)
	var users []models.User
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

func (r *AdminRepository) GetUserByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AdminRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// ListCars returns cars for the admin console with status/owner/search filters.
func (r *AdminRepository) ListCars(search, status string, ownerID uint, page, limit int) ([]models.Car, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	q := r.db.Model(&models.Car{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if ownerID != 0 {
		q = q.Where("owner_id = ?", ownerID)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("make LIKE ? OR model LIKE ? OR title LIKE ?", like, like, like)
	}
	var total int64
	q.Count(&total)
	var cars []models.Car
	err := q.Preload("Owner").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&cars).Error
	return cars, total, err
}
