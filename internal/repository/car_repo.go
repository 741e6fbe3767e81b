package repository

import (
	"carhub/internal/domain"
	"carhub/internal/models"

	"gorm.io/gorm"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

// CreatePending persists a new listing. Status is forced to pending and
// availability to false regardless of what the caller filled in.
func (r *CarRepository) CreatePending(c *models.Car) error {
	c.Status = domain.CarStatusPending
	c.IsAvailable = false
	c.RejectionReason = ""
	return r.db.Create(c).Error
}

func (r *CarRepository) GetByID(id uint) (*models.Car, error) {
	var c models.Car
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Owner").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Approve flips a pending listing to active and available in a single
// conditional write. Returns the number of rows transitioned (0 or 1):
// zero means the listing was missing or no longer pending.
func (r *CarRepository) Approve(id uint) (int64, error) {
	res := r.db.Model(&models.Car{}).
		Where("id = ? AND status = ?", id, domain.CarStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.CarStatusActive,
			"is_available": true,
		})
	return res.RowsAffected, res.Error
}

// RejectDelete removes a pending listing in a single conditional write.
// Returns the number of rows deleted (0 or 1).
func (r *CarRepository) RejectDelete(id uint) (int64, error) {
	res := r.db.Where("id = ? AND status = ?", id, domain.CarStatusPending).
		Delete(&models.Car{})
	return res.RowsAffected, res.Error
}

// SetOwnerStatus applies an owner-driven status change (sold, rented,
// inactive, back to active). Never touches pending listings.
func (r *CarRepository) SetOwnerStatus(id uint, status string) error {
	return r.db.Model(&models.Car{}).
		Where("id = ? AND status <> ?", id, domain.CarStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"is_available": status == domain.CarStatusActive,
		}).Error
}

func (r *CarRepository) Update(c *models.Car) error {
	return r.db.Save(c).Error
}

func (r *CarRepository) Delete(id uint) error {
	return r.db.Delete(&models.Car{}, id).Error
}

func (r *CarRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Car{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *CarRepository) IncrementFavorites(id uint, delta int) error {
	return r.db.Model(&models.Car{}).Where("id = ?", id).
		UpdateColumn("favorites", gorm.Expr("favorites + ?", delta)).Error
}

func (r *CarRepository) IncrementInquiries(id uint) error {
	return r.db.Model(&models.Car{}).Where("id = ?", id).
		UpdateColumn("inquiries", gorm.Expr("inquiries + 1")).Error
}

func (r *CarRepository) ReplaceImages(carID uint, images []models.CarImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", carID).Delete(&models.CarImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].CarID = carID
			images[i].Position = i
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

// CarFilter captures the public search surface.
type CarFilter struct {
	MinPrice, MaxPrice float64
	MinYear, MaxYear   int
	Make, Model        string // substring match
	Category           string
	FuelType           string
	Transmission       string
	ListingType        string
	Condition          string
	City, State        string // substring match
	Status             string // admin only; public listing pins active+available
	OwnerID            uint
	Search             string
	SortBy             string
	Page, Limit        int
	PublicOnly         bool
}

func (f CarFilter) page() int {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

func (f CarFilter) limit() int {
	if f.Limit < 1 {
		return 12
	}
	if f.Limit > 100 {
		return 100
	}
	return f.Limit
}

// apply chains the filter's WHERE clauses onto a cars query.
// `condition` is a reserved word in MySQL and must stay quoted.
func (f CarFilter) apply(q *gorm.DB) *gorm.DB {
	if f.PublicOnly {
		q = q.Where("status = ? AND is_available = ?", domain.CarStatusActive, true)
	} else if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.MinYear > 0 {
		q = q.Where("year >= ?", f.MinYear)
	}
	if f.MaxYear > 0 {
		q = q.Where("year <= ?", f.MaxYear)
	}
	if f.Make != "" {
		q = q.Where("make LIKE ?", "%"+f.Make+"%")
	}
	if f.Model != "" {
		q = q.Where("model LIKE ?", "%"+f.Model+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.FuelType != "" {
		q = q.Where("fuel_type = ?", f.FuelType)
	}
	if f.Transmission != "" {
		q = q.Where("transmission = ?", f.Transmission)
	}
	if f.ListingType != "" {
		q = q.Where("listing_type = ?", f.ListingType)
	}
	if f.Condition != "" {
		q = q.Where("`condition` = ?", f.Condition)
	}
	if f.City != "" {
		q = q.Where("location_city LIKE ?", "%"+f.City+"%")
	}
	if f.State != "" {
		q = q.Where("location_state LIKE ?", "%"+f.State+"%")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ? OR make LIKE ? OR model LIKE ?", like, like, like, like)
	}
	return q
}

// List returns one page of cars plus the total match count.
func (r *CarRepository) List(f CarFilter) ([]models.Car, int64, error) {
	q := f.apply(r.db.Model(&models.Car{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cars []models.Car
	err := q.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Owner").
		Order(sortClause(f.SortBy)).
		Limit(f.limit()).
		Offset((f.page() - 1) * f.limit()).
		Find(&cars).Error
	return cars, total, err
}

func sortClause(sortBy string) string {
	switch sortBy {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "year_asc":
		return "year ASC"
	case "year_desc":
		return "year DESC"
	case "mileage_asc":
		return "mileage ASC"
	case "mileage_desc":
		return "mileage DESC"
	case "featured":
		return "is_featured DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

// CountByStatus powers the admin dashboard.
func (r *CarRepository) CountByStatus(status string) (int64, error) {
	q := r.db.Model(&models.Car{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
