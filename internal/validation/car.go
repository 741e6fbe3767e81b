package validation

import (
	"fmt"
	"strings"
	"time"

	"carhub/internal/domain"
	"carhub/internal/models"
)

// Violation names one failed field constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every violation found in a submission; callers report
// the whole set, not just the first.
type Error struct {
	Violations []Violation `json:"violations"`
}

func (e *Error) Error() string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// ValidateCar checks every field against its constraint and collects
// all violations before returning.
func ValidateCar(c *models.Car) error {
	var out []Violation
	add := func(field, message string) {
		out = append(out, Violation{Field: field, Message: message})
	}

	if n := len(strings.TrimSpace(c.Title)); n < 5 || n > 100 {
		add("title", "must be between 5 and 100 characters")
	}
	if n := len(strings.TrimSpace(c.Description)); n < 20 || n > 2000 {
		add("description", "must be between 20 and 2000 characters")
	}
	if strings.TrimSpace(c.Make) == "" {
		add("make", "is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		add("model", "is required")
	}
	maxYear := time.Now().Year() + 1
	if c.Year < 1900 || c.Year > maxYear {
		add("year", fmt.Sprintf("must be between 1900 and %d", maxYear))
	}
	if c.Mileage < 0 {
		add("mileage", "must not be negative")
	}
	if c.Price < 0 {
		add("price", "must not be negative")
	}
	if !oneOf(c.FuelType, domain.FuelTypes) {
		add("fuel_type", "invalid fuel type")
	}
	if !oneOf(c.Transmission, domain.Transmissions) {
		add("transmission", "invalid transmission type")
	}
	if c.Drivetrain != "" && !oneOf(c.Drivetrain, domain.Drivetrains) {
		add("drivetrain", "invalid drivetrain")
	}
	if !oneOf(c.Category, domain.Categories) {
		add("category", "invalid category")
	}
	if c.BodyType != "" && !oneOf(c.BodyType, domain.BodyTypes) {
		add("body_type", "invalid body type")
	}
	if !oneOf(c.Condition, domain.Conditions) {
		add("condition", "invalid condition")
	}
	if !oneOf(c.ListingType, domain.ListingTypes) {
		add("listing_type", "invalid listing type")
	}
	if c.PriceType != "" && !oneOf(c.PriceType, domain.PriceTypes) {
		add("price_type", "invalid price type")
	}

	if len(out) > 0 {
		return &Error{Violations: out}
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
