package handler

import (
	"net/http"
	"strconv"

	"carhub/internal/domain"
	"carhub/internal/middleware"
	"carhub/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	admin *repository.AdminRepository
	users *repository.UserRepository
}

func NewAdminHandler(admin *repository.AdminRepository, users *repository.UserRepository) *AdminHandler {
	return &AdminHandler{admin: admin, users: users}
}

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.admin.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var active *bool
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active filter"})
			return
		}
		active = &b
	}

	users, total, err := h.admin.ListUsers(c.Query("search"), c.Query("role"), active, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": paginationMeta(page, limit, total),
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	u, err := h.admin.GetUserByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type AdminUpdateUserRequest struct {
	Role     *string `json:"role" binding:"omitempty,oneof=user dealer admin"`
	IsActive *bool   `json:"is_active"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.admin.GetUserByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	// Admins cannot demote or deactivate themselves.
	if u.ID == middleware.GetUserID(c) {
		if (req.Role != nil && *req.Role != domain.RoleAdmin) || (req.IsActive != nil && !*req.IsActive) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change your own admin access"})
			return
		}
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated", "user": u})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if uint(id) == middleware.GetUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	if _, err := h.admin.GetUserByID(uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch user"})
		return
	}
	if err := h.admin.DeleteUser(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *AdminHandler) ListCars(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	ownerID, _ := strconv.ParseUint(c.Query("owner_id"), 10, 32)

	cars, total, err := h.admin.ListCars(c.Query("search"), c.Query("status"), uint(ownerID), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch cars"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cars":       cars,
		"pagination": paginationMeta(page, limit, total),
	})
}

// PendingCars is the moderation queue for the admin console.
func (h *AdminHandler) PendingCars(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	cars, total, err := h.admin.ListCars("", domain.CarStatusPending, 0, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch pending cars"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cars":       cars,
		"pagination": paginationMeta(page, limit, total),
	})
}
