package validation

import (
	"strings"
	"testing"
	"time"

	"carhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCar() *models.Car {
	return &models.Car{
		Title:        "2018 Honda Civic EX-T",
		Description:  "Clean one-owner Civic with full service history and new tires.",
		Make:         "Honda",
		Model:        "Civic",
		Year:         2018,
		Mileage:      42000,
		FuelType:     "gasoline",
		Transmission: "automatic",
		Category:     "sedan",
		Condition:    "good",
		ListingType:  "sale",
		Price:        15500,
	}
}

func violationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *Error
	require.ErrorAs(t, err, &verr)
	fields := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		fields[i] = v.Field
	}
	return fields
}

func TestValidateCar_ValidPasses(t *testing.T) {
	assert.NoError(t, ValidateCar(validCar()))
}

func TestValidateCar_OptionalFieldsMayBeEmpty(t *testing.T) {
	c := validCar()
	c.Drivetrain = ""
	c.BodyType = ""
	c.PriceType = ""
	assert.NoError(t, ValidateCar(c))
}

func TestValidateCar_CollectsAllViolations(t *testing.T) {
	c := validCar()
	c.Title = "Car"
	c.Description = "too short"
	c.Make = " "
	c.Year = 1850
	c.Price = -1

	fields := violationFields(t, ValidateCar(c))
	assert.ElementsMatch(t, []string{"title", "description", "make", "year", "price"}, fields)
}

func TestValidateCar_Boundaries(t *testing.T) {
	c := validCar()
	c.Title = strings.Repeat("a", 100)
	c.Description = strings.Repeat("b", 2000)
	c.Year = time.Now().Year() + 1
	c.Mileage = 0
	c.Price = 0
	assert.NoError(t, ValidateCar(c))

	c.Title = strings.Repeat("a", 101)
	c.Year = time.Now().Year() + 2
	fields := violationFields(t, ValidateCar(c))
	assert.ElementsMatch(t, []string{"title", "year"}, fields)
}

func TestValidateCar_ClosedVocabularies(t *testing.T) {
	c := validCar()
	c.FuelType = "plutonium"
	c.Transmission = "psychic"
	c.Category = "spaceship"
	c.Condition = "mint"
	c.ListingType = "lease"
	c.Drivetrain = "6wd"
	c.PriceType = "auction"

	fields := violationFields(t, ValidateCar(c))
	assert.ElementsMatch(t, []string{
		"fuel_type", "transmission", "category", "condition",
		"listing_type", "drivetrain", "price_type",
	}, fields)
}

func TestValidateImageDataURL(t *testing.T) {
	const maxBytes = 1024
	ok := "data:image/png;base64," + strings.Repeat("A", 100)
	assert.NoError(t, ValidateImageDataURL(ok, maxBytes))

	assert.ErrorIs(t, ValidateImageDataURL("https://example.com/a.png", maxBytes), ErrImageFormat)
	assert.ErrorIs(t, ValidateImageDataURL("data:image/gif;base64,AAAA", maxBytes), ErrImageFormat)

	huge := "data:image/jpeg;base64," + strings.Repeat("A", 4*maxBytes)
	assert.ErrorIs(t, ValidateImageDataURL(huge, maxBytes), ErrImageSize)
}
