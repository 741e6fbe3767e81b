package service

import (
	"errors"
	"testing"

	"carhub/internal/database"
	"carhub/internal/domain"
	"carhub/internal/models"
	"carhub/internal/repository"
	"carhub/internal/validation"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedRoster pins the admin set for a test, or fails on demand.
type fixedRoster struct {
	admins []models.User
	err    error
}

func (r *fixedRoster) ListAdmins() ([]models.User, error) {
	return r.admins, r.err
}

type moderationFixture struct {
	db     *gorm.DB
	cars   *repository.CarRepository
	notifs *repository.NotificationRepository
	svc    *ModerationService

	owner  *models.User
	admin1 *models.User
	admin2 *models.User
}

func newModerationFixture(t *testing.T) *moderationFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	f := &moderationFixture{
		db:     db,
		cars:   repository.NewCarRepository(db),
		notifs: repository.NewNotificationRepository(db),
	}
	f.owner = f.user(t, "owner@example.com", domain.RoleUser)
	f.admin1 = f.user(t, "admin1@example.com", domain.RoleAdmin)
	f.admin2 = f.user(t, "admin2@example.com", domain.RoleAdmin)

	roster := &fixedRoster{admins: []models.User{*f.admin1, *f.admin2}}
	f.svc = NewModerationService(f.cars, NewNotificationService(f.notifs, nil), roster)
	return f
}

func (f *moderationFixture) user(t *testing.T, email, role string) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Test", LastName: "User", Email: email, Role: role, IsActive: true}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func civic() *models.Car {
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

func TestSubmitListing_PendingWithAdminFanOut(t *testing.T) {
	f := newModerationFixture(t)

	car, err := f.svc.SubmitListing(f.owner, civic())
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusPending, car.Status)
	assert.False(t, car.IsAvailable)
	assert.Equal(t, f.owner.ID, car.OwnerID)
	assert.Equal(t, domain.OwnerTypePrivate, car.OwnerType)

	// One actionable notice per admin, none for the owner.
	n, err := f.notifs.CountActionable(car.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	forAdmin, err := f.notifs.ListByRecipient(f.admin1.ID, true, 0)
	require.NoError(t, err)
	require.Len(t, forAdmin, 1)
	got := forAdmin[0]
	assert.Equal(t, domain.NotificationCarApprovalPending, got.Type)
	assert.True(t, got.ActionRequired)
	require.NotNil(t, got.RelatedCarID)
	assert.Equal(t, car.ID, *got.RelatedCarID)
	require.NotNil(t, got.SenderID)
	assert.Equal(t, f.owner.ID, *got.SenderID)

	meta := got.DecodeMetadata()
	assert.Equal(t, car.Title, meta.CarTitle)
	assert.Equal(t, f.owner.FullName(), meta.OwnerName)
	assert.Equal(t, f.owner.Email, meta.OwnerEmail)

	forOwner, err := f.notifs.ListByRecipient(f.owner.ID, false, 0)
	require.NoError(t, err)
	assert.Empty(t, forOwner)
}

func TestSubmitListing_ValidationCollectsAllViolations(t *testing.T) {
	f := newModerationFixture(t)

	bad := civic()
	bad.Title = "Car"
	bad.FuelType = "plutonium"
	bad.Year = 1850

	_, err := f.svc.SubmitListing(f.owner, bad)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	fields := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		fields[i] = v.Field
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "fuel_type")
	assert.Contains(t, fields, "year")

	// Nothing was persisted and no one was notified.
	var count int64
	f.db.Model(&models.Car{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitListing_SurvivesRosterFailure(t *testing.T) {
	f := newModerationFixture(t)
	f.svc = NewModerationService(f.cars, NewNotificationService(f.notifs, nil),
		&fixedRoster{err: errors.New("roster unavailable")})

	car, err := f.svc.SubmitListing(f.owner, civic())
	require.NoError(t, err)

	got, err := f.cars.GetByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusPending, got.Status)

	var count int64
	f.db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestDecide_ApprovePublishesAndNotifiesOwner(t *testing.T) {
	f := newModerationFixture(t)
	car, err := f.svc.SubmitListing(f.owner, civic())
	require.NoError(t, err)

	d, err := f.svc.Decide(f.admin1, car.ID, true, "")
	require.NoError(t, err)
	assert.True(t, d.Approved)
	require.NotNil(t, d.Car)
	assert.Equal(t, domain.CarStatusActive, d.Car.Status)
	assert.True(t, d.Car.IsAvailable)

	got, err := f.cars.GetByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusActive, got.Status)
	assert.True(t, got.IsAvailable)

	forOwner, err := f.notifs.ListByRecipient(f.owner.ID, true, 0)
	require.NoError(t, err)
	require.Len(t, forOwner, 1)
	assert.Equal(t, domain.NotificationCarApproved, forOwner[0].Type)
	assert.Equal(t, f.admin1.FullName(), forOwner[0].DecodeMetadata().DecidedBy)

	// The approval requests of every admin are retired.
	n, err := f.notifs.CountActionable(car.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDecide_RejectDeletesAndCarriesReason(t *testing.T) {
	f := newModerationFixture(t)
	car, err := f.svc.SubmitListing(f.owner, civic())
	require.NoError(t, err)

	d, err := f.svc.Decide(f.admin1, car.ID, false, "Odometer photos do not match the stated mileage")
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Nil(t, d.Car)
	assert.Equal(t, car.Title, d.CarTitle)
	assert.Equal(t, "Odometer photos do not match the stated mileage", d.Reason)

	_, err = f.cars.GetByID(car.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	forOwner, err := f.notifs.ListByRecipient(f.owner.ID, true, 0)
	require.NoError(t, err)
	require.Len(t, forOwner, 1)
	assert.Equal(t, domain.NotificationCarRejected, forOwner[0].Type)
	assert.Nil(t, forOwner[0].RelatedCarID)
	meta := forOwner[0].DecodeMetadata()
	assert.Equal(t, car.Title, meta.CarTitle)
	assert.Equal(t, "Odometer photos do not match the stated mileage", meta.Reason)

	n, err := f.notifs.CountActionable(car.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDecide_RejectDefaultsReason(t *testing.T) {
	f := newModerationFixture(t)
	car, err := f.svc.SubmitListing(f.owner, civic())
	require.NoError(t, err)

	d, err := f.svc.Decide(f.admin1, car.ID, false, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRejectionReason, d.Reason)
}

func TestDecide_SecondAdminLoses(t *testing.T) {
	f := newModerationFixture(t)
	car, err := f.svc.SubmitListing(f.owner, civic())
	require.NoError(t, err)

	_, err = f.svc.Decide(f.admin1, car.ID, true, "")
	require.NoError(t, err)

	_, err = f.svc.Decide(f.admin2, car.ID, true, "")
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = f.svc.Decide(f.admin2, car.ID, false, "too late")
	assert.ErrorIs(t, err, ErrNotPending)

	// The losing calls never notified the owner a second time.
	forOwner, err := f.notifs.ListByRecipient(f.owner.ID, false, 0)
	require.NoError(t, err)
	require.Len(t, forOwner, 1)
	assert.Equal(t, domain.NotificationCarApproved, forOwner[0].Type)

	// A rejection winner leaves the loser with not-found instead.
	car2, err := f.svc.SubmitListing(f.owner, civic())
	require.NoError(t, err)
	_, err = f.svc.Decide(f.admin1, car2.ID, false, "")
	require.NoError(t, err)
	_, err = f.svc.Decide(f.admin2, car2.ID, true, "")
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestDecide_RaceLoserAfterConcurrentWrite(t *testing.T) {
	f := newModerationFixture(t)
	car, err := f.svc.SubmitListing(f.owner, civic())
	require.NoError(t, err)

	// Flip the row underneath the service the way a concurrent winner
	// would, then decide through the normal path.
	rows, err := f.cars.Approve(car.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	_, err = f.svc.Decide(f.admin2, car.ID, false, "duplicate listing")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestDecide_MissingCar(t *testing.T) {
	f := newModerationFixture(t)
	_, err := f.svc.Decide(f.admin1, 9999, true, "")
	assert.ErrorIs(t, err, ErrCarNotFound)
}
