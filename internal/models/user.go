package models

import (
	"time"

	"carhub/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FirstName    string         `gorm:"size:50;not null" json:"first_name"`
	LastName     string         `gorm:"size:50;not null" json:"last_name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Phone        string         `gorm:"size:32" json:"phone"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	Role         string         `gorm:"size:20;not null;index;default:user" json:"role"` // user | dealer | admin
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	AuthProvider string         `gorm:"size:20;default:local" json:"auth_provider"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Dealer-only fields, empty for private sellers.
	BusinessName    string `gorm:"size:100" json:"business_name,omitempty"`
	BusinessLicense string `gorm:"size:100" json:"business_license,omitempty"`
	BusinessWebsite string `gorm:"size:255" json:"business_website,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool  { return u.Role == domain.RoleAdmin }
func (u *User) IsDealer() bool { return u.Role == domain.RoleDealer }

// FullName is used for notification text and metadata snapshots.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// OwnerType maps the account role onto the listing owner type.
func (u *User) OwnerType() string {
	if u.IsDealer() {
		return domain.OwnerTypeDealer
	}
	return domain.OwnerTypePrivate
}
