package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Car struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	Make       string `gorm:"size:64;not null;index:idx_cars_make_model" json:"make"`
	Model      string `gorm:"size:64;not null;index:idx_cars_make_model" json:"model"`
	Year       int    `gorm:"not null;index" json:"year"`
	Mileage    int    `gorm:"not null" json:"mileage"`
	EngineSize string `gorm:"size:32" json:"engine_size,omitempty"`

	FuelType     string `gorm:"size:20;not null" json:"fuel_type"`
	Transmission string `gorm:"size:20;not null" json:"transmission"`
	Drivetrain   string `gorm:"size:10" json:"drivetrain,omitempty"`
	Category     string `gorm:"size:20;not null;index" json:"category"`
	BodyType     string `gorm:"size:20" json:"body_type,omitempty"`
	Condition    string `gorm:"size:20;not null" json:"condition"`
	ListingType  string `gorm:"size:10;not null;index" json:"listing_type"` // sale | rent | both

	Price     float64 `gorm:"not null;index" json:"price"`
	Currency  string  `gorm:"size:3;default:USD" json:"currency"`
	PriceType string  `gorm:"size:16;default:negotiable" json:"price_type"`

	Images   []CarImage `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"images"`
	Features string     `gorm:"type:text" json:"features,omitempty"` // JSON array of strings

	LocationCity    string `gorm:"size:64;index:idx_cars_city_state" json:"location_city,omitempty"`
	LocationState   string `gorm:"size:64;index:idx_cars_city_state" json:"location_state,omitempty"`
	LocationZipCode string `gorm:"size:16" json:"location_zip_code,omitempty"`
	LocationCountry string `gorm:"size:64;default:USA" json:"location_country,omitempty"`

	OwnerID   uint   `gorm:"not null;index" json:"owner_id"`
	OwnerType string `gorm:"size:10;not null" json:"owner_type"` // private | dealer

	ContactPhone    string `gorm:"size:32" json:"contact_phone,omitempty"`
	ContactEmail    string `gorm:"size:255" json:"contact_email,omitempty"`
	PreferredContact string `gorm:"size:10;default:both" json:"preferred_contact,omitempty"`

	Status          string `gorm:"size:16;not null;index:idx_cars_status_available;default:pending" json:"status"`
	RejectionReason string `gorm:"size:512" json:"rejection_reason,omitempty"`
	IsAvailable     bool   `gorm:"index:idx_cars_status_available;default:false" json:"is_available"`
	IsFeatured      bool   `gorm:"default:false" json:"is_featured"`

	Views     int `gorm:"default:0" json:"views"`
	Favorites int `gorm:"default:0" json:"favorites"`
	Inquiries int `gorm:"default:0" json:"inquiries"`

	VIN  string `gorm:"size:17" json:"vin,omitempty"`
	Slug string `gorm:"uniqueIndex;size:255" json:"slug"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Car) TableName() string {
	return "cars"
}

// CarImage stores one encoded image payload of a listing, ordered by Position.
type CarImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CarID    uint   `gorm:"not null;index" json:"car_id"`
	Data     string `gorm:"type:longtext;not null" json:"data"` // base64 data URL or CDN URL
	Position int    `gorm:"not null" json:"position"`
}

func (CarImage) TableName() string {
	return "car_images"
}

// BeforeCreate assigns the SEO slug from make/model/year/title.
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		base := Slugify(fmt.Sprintf("%s-%s-%d-%s", c.Make, c.Model, c.Year, c.Title))
		c.Slug = fmt.Sprintf("%s-%d", base, time.Now().UnixNano())
	}
	return nil
}

// Slugify lowercases and collapses non-alphanumeric runs into single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// PrimaryImage returns the first image payload, or empty when none.
func (c *Car) PrimaryImage() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[0].Data
}
