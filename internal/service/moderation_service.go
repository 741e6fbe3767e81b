package service

import (
	"errors"
	"log"

	"carhub/internal/domain"
	"carhub/internal/models"
	"carhub/internal/repository"
	"carhub/internal/validation"

	"gorm.io/gorm"
)

var (
	ErrCarNotFound = errors.New("car not found")
	ErrNotPending  = errors.New("car is not pending approval")
)

// AdminRoster supplies the point-in-time set of admins to fan out to.
type AdminRoster interface {
	ListAdmins() ([]models.User, error)
}

// ModerationService owns the submit -> notify -> decide -> resolve
// lifecycle of a listing. The listing write is the authoritative state
// change; every notification write around it is best-effort.
type ModerationService struct {
	cars   *repository.CarRepository
	notifs *NotificationService
	roster AdminRoster
}

func NewModerationService(cars *repository.CarRepository, notifs *NotificationService, roster AdminRoster) *ModerationService {
	return &ModerationService{cars: cars, notifs: notifs, roster: roster}
}

// SubmitListing validates and persists a new listing in pending state,
// then fans out one approval request per admin. Fan-out failure never
// fails the submission.
func (s *ModerationService) SubmitListing(owner *models.User, car *models.Car) (*models.Car, error) {
	car.OwnerID = owner.ID
	car.OwnerType = owner.OwnerType()
	if err := validation.ValidateCar(car); err != nil {
		return nil, err
	}
	if err := s.cars.CreatePending(car); err != nil {
		return nil, err
	}
	car.Owner = owner

	admins, err := s.roster.ListAdmins()
	if err != nil {
		log.Printf("[moderation] admin roster lookup failed for car %d: %v", car.ID, err)
		return car, nil
	}
	if created, err := s.notifs.FanOutApprovalPending(admins, owner, car); err != nil {
		log.Printf("[moderation] approval fan-out for car %d: %d/%d created: %v", car.ID, created, len(admins), err)
	}
	return car, nil
}

// Decision reports the outcome of an approve/reject call.
type Decision struct {
	Car      *models.Car `json:"car,omitempty"` // nil after a rejection, the listing is gone
	CarTitle string      `json:"car_title"`
	Approved bool        `json:"approved"`
	Reason   string      `json:"reason,omitempty"`
}

// Decide applies an admin's approve/reject verdict. The status check
// and mutation are a single conditional write, so of two racing admins
// exactly one wins and the loser sees ErrNotPending.
func (s *ModerationService) Decide(admin *models.User, carID uint, approve bool, reason string) (*Decision, error) {
	car, err := s.cars.GetByID(carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if car.Status != domain.CarStatusPending {
		return nil, ErrNotPending
	}

	var rows int64
	if approve {
		rows, err = s.cars.Approve(carID)
	} else {
		if reason == "" {
			reason = domain.DefaultRejectionReason
		}
		rows, err = s.cars.RejectDelete(carID)
	}
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost the race: another admin decided between our read and the
		// conditional write.
		if _, err := s.cars.GetByID(carID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, ErrNotPending
	}

	d := &Decision{CarTitle: car.Title, Approved: approve}
	if approve {
		car.Status = domain.CarStatusActive
		car.IsAvailable = true
		d.Car = car
		if err := s.notifs.NotifyApproved(admin, car); err != nil {
			log.Printf("[moderation] approve notification for car %d: %v", car.ID, err)
		}
	} else {
		d.Reason = reason
		if err := s.notifs.NotifyRejected(admin, car, reason); err != nil {
			log.Printf("[moderation] reject notification for car %d: %v", car.ID, err)
		}
	}
	if _, err := s.notifs.ResolveApprovalRequests(carID); err != nil {
		log.Printf("[moderation] resolve sweep for car %d: %v", carID, err)
	}
	return d, nil
}
