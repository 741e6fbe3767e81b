package handler

import (
	"fmt"
	"net/http"
	"time"

	"carhub/internal/middleware"
	"carhub/internal/repository"
	"carhub/internal/validation"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	users    *repository.UserRepository
	maxImage int64
}

func NewMeHandler(users *repository.UserRepository, maxImageBytes int64) *MeHandler {
	return &MeHandler{users: users, maxImage: maxImageBytes}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name" binding:"omitempty,min=2,max=50"`
	LastName        *string `json:"last_name" binding:"omitempty,min=2,max=50"`
	Phone           *string `json:"phone"`
	BusinessName    *string `json:"business_name" binding:"omitempty,max=100"`
	BusinessLicense *string `json:"business_license" binding:"omitempty,max=100"`
	BusinessWebsite *string `json:"business_website" binding:"omitempty,max=255"`
}

// UpdateProfile applies the allow-listed profile fields; business
// fields are accepted from dealers only.
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if u.IsDealer() {
		if req.BusinessName != nil {
			u.BusinessName = *req.BusinessName
		}
		if req.BusinessLicense != nil {
			u.BusinessLicense = *req.BusinessLicense
		}
		if req.BusinessWebsite != nil {
			u.BusinessWebsite = *req.BusinessWebsite
		}
	}
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": u})
}

// UpdateAvatar accepts a base64 data URL, same rules as car images.
func (h *MeHandler) UpdateAvatar(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Avatar string `json:"avatar" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar data is required"})
		return
	}
	if err := validation.ValidateImageDataURL(req.Avatar, h.maxImage); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.AvatarURL = req.Avatar
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "avatar updated", "avatar_url": u.AvatarURL})
}

// DeactivateAccount soft-deletes the account. The email is tombstoned
// so it can be reused for a fresh signup.
func (h *MeHandler) DeactivateAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.IsActive = false
	u.Email = fmt.Sprintf("deleted_%d_%s", time.Now().Unix(), u.Email)
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not deactivate account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deactivated"})
}
