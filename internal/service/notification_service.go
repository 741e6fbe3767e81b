package service

import (
	"fmt"
	"strconv"

	"carhub/internal/domain"
	"carhub/internal/models"
	"carhub/internal/repository"
)

// Pusher delivers a payload to a connected user, if any. Implemented by
// the websocket hub; delivery is fire-and-forget.
type Pusher interface {
	BroadcastToUser(userID uint, payload interface{})
}

type NotificationService struct {
	repo *repository.NotificationRepository
	push Pusher
}

// NewNotificationService builds the service; push may be nil (no live
// delivery, persistence only).
func NewNotificationService(repo *repository.NotificationRepository, push Pusher) *NotificationService {
	return &NotificationService{repo: repo, push: push}
}

// FanOutApprovalPending creates one actionable approval request per
// admin. Rows that fail are reported but never rolled back.
func (s *NotificationService) FanOutApprovalPending(admins []models.User, owner *models.User, car *models.Car) (int, error) {
	meta := models.NotificationMetadata{
		CarTitle:   car.Title,
		CarID:      strconv.FormatUint(uint64(car.ID), 10),
		OwnerName:  owner.FullName(),
		OwnerEmail: owner.Email,
	}.Encode()

	list := make([]*models.Notification, 0, len(admins))
	for _, admin := range admins {
		senderID := owner.ID
		carID := car.ID
		list = append(list, &models.Notification{
			Type:           domain.NotificationCarApprovalPending,
			Title:          "New Car Listing Pending Approval",
			Message:        fmt.Sprintf("%s has submitted a new car listing: %q for approval.", owner.FullName(), car.Title),
			RecipientID:    admin.ID,
			SenderID:       &senderID,
			RelatedCarID:   &carID,
			ActionRequired: true,
			Metadata:       meta,
		})
	}
	created, err := s.repo.CreateMany(list)
	for _, n := range list {
		if n.ID != 0 {
			s.pushToRecipient(n)
		}
	}
	return created, err
}

// NotifyApproved tells the owner their listing went live.
func (s *NotificationService) NotifyApproved(admin *models.User, car *models.Car) error {
	senderID := admin.ID
	carID := car.ID
	n := &models.Notification{
		Type:         domain.NotificationCarApproved,
		Title:        "Car Listing Approved",
		Message:      fmt.Sprintf("Your car listing %q has been approved and is now live on the platform.", car.Title),
		RecipientID:  car.OwnerID,
		SenderID:     &senderID,
		RelatedCarID: &carID,
		Metadata: models.NotificationMetadata{
			CarTitle:  car.Title,
			CarID:     strconv.FormatUint(uint64(car.ID), 10),
			DecidedBy: admin.FullName(),
		}.Encode(),
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	s.pushToRecipient(n)
	return nil
}

// NotifyRejected tells the owner their listing was removed. No car
// reference is stored since the listing no longer exists; the metadata
// snapshot carries what the owner needs to know.
func (s *NotificationService) NotifyRejected(admin *models.User, car *models.Car, reason string) error {
	senderID := admin.ID
	n := &models.Notification{
		Type:        domain.NotificationCarRejected,
		Title:       "Car Listing Rejected",
		Message:     fmt.Sprintf("Your car listing %q has been rejected. Reason: %s", car.Title, reason),
		RecipientID: car.OwnerID,
		SenderID:    &senderID,
		Metadata: models.NotificationMetadata{
			CarTitle:  car.Title,
			CarID:     strconv.FormatUint(uint64(car.ID), 10),
			DecidedBy: admin.FullName(),
			Reason:    reason,
		}.Encode(),
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	s.pushToRecipient(n)
	return nil
}

// NotifyInquiry forwards a buyer's message to the listing owner.
func (s *NotificationService) NotifyInquiry(sender *models.User, car *models.Car, message string) error {
	senderID := sender.ID
	carID := car.ID
	n := &models.Notification{
		Type:         domain.NotificationCarInquiry,
		Title:        "New Inquiry About Your Car",
		Message:      fmt.Sprintf("%s is interested in %q: %s", sender.FullName(), car.Title, message),
		RecipientID:  car.OwnerID,
		SenderID:     &senderID,
		RelatedCarID: &carID,
		Metadata: models.NotificationMetadata{
			CarTitle: car.Title,
			CarID:    strconv.FormatUint(uint64(car.ID), 10),
		}.Encode(),
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	s.pushToRecipient(n)
	return nil
}

// ResolveApprovalRequests retires all actionable approval notices for a
// car once any admin has decided.
func (s *NotificationService) ResolveApprovalRequests(carID uint) (int64, error) {
	return s.repo.MarkResolved(carID)
}

func (s *NotificationService) pushToRecipient(n *models.Notification) {
	if s.push == nil {
		return
	}
	s.push.BroadcastToUser(n.RecipientID, map[string]interface{}{
		"type":         "notification",
		"notification": n,
	})
}
