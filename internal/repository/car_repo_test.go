package repository

import (
	"database/sql"
	"testing"

	"carhub/internal/database"
	"carhub/internal/domain"
	"carhub/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func testCar(ownerID uint) *models.Car {
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
		OwnerID:      ownerID,
		OwnerType:    domain.OwnerTypePrivate,
	}
}

func TestCreatePending_ForcesPendingState(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	// A submitter cannot smuggle in a live listing.
	car.Status = domain.CarStatusActive
	car.IsAvailable = true
	car.RejectionReason = "stale"

	require.NoError(t, repo.CreatePending(car))

	got, err := repo.GetByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusPending, got.Status)
	assert.False(t, got.IsAvailable)
	assert.Empty(t, got.RejectionReason)
	assert.NotEmpty(t, got.Slug)
}

func TestApprove_OnlyTransitionsPending(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(car))

	rows, err := repo.Approve(car.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := repo.GetByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusActive, got.Status)
	assert.True(t, got.IsAvailable)

	// Second conditional write finds nothing pending.
	rows, err = repo.Approve(car.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestRejectDelete_RemovesPendingListing(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(car))

	rows, err := repo.RejectDelete(car.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = repo.GetByID(car.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRejectDelete_SkipsNonPending(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(car))
	_, err := repo.Approve(car.ID)
	require.NoError(t, err)

	rows, err := repo.RejectDelete(car.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	got, err := repo.GetByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusActive, got.Status)
}

func TestApproveThenReject_ExactlyOneWins(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(car))

	approved, err := repo.Approve(car.ID)
	require.NoError(t, err)
	rejected, err := repo.RejectDelete(car.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), approved+rejected)
}

func TestSetOwnerStatus_NeverTouchesPending(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(car))

	require.NoError(t, repo.SetOwnerStatus(car.ID, domain.CarStatusSold))
	got, err := repo.GetByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusPending, got.Status)

	_, err = repo.Approve(car.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SetOwnerStatus(car.ID, domain.CarStatusSold))
	got, err = repo.GetByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusSold, got.Status)
	assert.False(t, got.IsAvailable)
}

func TestList_PublicOnlyHidesPendingAndSold(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	pending := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(pending))

	active := testCar(owner.ID)
	active.Title = "2020 Toyota Corolla LE"
	active.Make = "Toyota"
	active.Model = "Corolla"
	require.NoError(t, repo.CreatePending(active))
	_, err := repo.Approve(active.ID)
	require.NoError(t, err)

	sold := testCar(owner.ID)
	sold.Title = "2015 Mazda 3 Touring"
	sold.Make = "Mazda"
	sold.Model = "3"
	require.NoError(t, repo.CreatePending(sold))
	_, err = repo.Approve(sold.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SetOwnerStatus(sold.ID, domain.CarStatusSold))

	cars, total, err := repo.List(CarFilter{PublicOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, cars, 1)
	assert.Equal(t, active.ID, cars[0].ID)
}

func TestList_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	civic := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(civic))
	_, err := repo.Approve(civic.ID)
	require.NoError(t, err)

	corolla := testCar(owner.ID)
	corolla.Title = "2021 Toyota Corolla SE"
	corolla.Make = "Toyota"
	corolla.Model = "Corolla"
	corolla.Year = 2021
	corolla.Price = 21000
	require.NoError(t, repo.CreatePending(corolla))
	_, err = repo.Approve(corolla.ID)
	require.NoError(t, err)

	cars, total, err := repo.List(CarFilter{PublicOnly: true, Make: "toy"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, cars, 1)
	assert.Equal(t, "Toyota", cars[0].Make)

	_, total, err = repo.List(CarFilter{PublicOnly: true, MinYear: 2020})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(CarFilter{PublicOnly: true, MaxPrice: 16000})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(CarFilter{PublicOnly: true, Search: "civic"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestList_ConditionFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(car))
	_, err := repo.Approve(car.ID)
	require.NoError(t, err)

	_, total, err := repo.List(CarFilter{PublicOnly: true, Condition: "good"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(CarFilter{PublicOnly: true, Condition: "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

// The condition column collides with a MySQL reserved word; render the
// filter under the MySQL dialect and check the identifier stays quoted.
func TestCarFilter_ConditionQuotedForMySQL(t *testing.T) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun: true,
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var cars []models.Car
	f := CarFilter{PublicOnly: true, Condition: "good"}
	tx := f.apply(db.Model(&models.Car{})).Find(&cars)
	require.NoError(t, tx.Error)
	assert.Contains(t, tx.Statement.SQL.String(), "`condition` = ?")
	assert.NotContains(t, tx.Statement.SQL.String(), " condition = ?")
}

func TestReplaceImages_ReordersAndReplaces(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	car.Images = []models.CarImage{{Data: "img-a"}, {Data: "img-b"}}
	require.NoError(t, repo.CreatePending(car))

	require.NoError(t, repo.ReplaceImages(car.ID, []models.CarImage{{Data: "img-c"}}))

	got, err := repo.GetByID(car.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "img-c", got.Images[0].Data)
	assert.Equal(t, 0, got.Images[0].Position)
}

func TestIncrementCounters(t *testing.T) {
	db := newTestDB(t)
	repo := NewCarRepository(db)
	owner := seedUser(t, db, "owner@example.com", domain.RoleUser)

	car := testCar(owner.ID)
	require.NoError(t, repo.CreatePending(car))

	require.NoError(t, repo.IncrementViews(car.ID))
	require.NoError(t, repo.IncrementViews(car.ID))
	require.NoError(t, repo.IncrementFavorites(car.ID, 1))
	require.NoError(t, repo.IncrementFavorites(car.ID, -1))

	got, err := repo.GetByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)
	assert.Equal(t, 0, got.Favorites)
}
