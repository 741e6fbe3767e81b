package handler

import (
	"log"
	"net/http"
	"strconv"

	"carhub/internal/domain"
	"carhub/internal/middleware"
	"carhub/internal/repository"
	"carhub/internal/service"

	"github.com/gin-gonic/gin"
)

type InquiryHandler struct {
	cars   *repository.CarRepository
	users  *repository.UserRepository
	notifs *service.NotificationService
}

func NewInquiryHandler(cars *repository.CarRepository, users *repository.UserRepository, notifs *service.NotificationService) *InquiryHandler {
	return &InquiryHandler{cars: cars, users: users, notifs: notifs}
}

// Contact sends a buyer's message to the listing owner and bumps the
// inquiry counter.
func (h *InquiryHandler) Contact(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sender, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	carID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car id"})
		return
	}
	car, err := h.cars.GetByID(uint(carID))
	if err != nil || car.Status != domain.CarStatusActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
		return
	}
	if car.OwnerID == sender.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot inquire about your own listing"})
		return
	}
	var req struct {
		Message string `json:"message" binding:"required,min=2,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.notifs.NotifyInquiry(sender, car, req.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send inquiry"})
		return
	}
	if err := h.cars.IncrementInquiries(car.ID); err != nil {
		log.Printf("[cars] inquiry count for car %d: %v", car.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "inquiry sent to the seller"})
}
