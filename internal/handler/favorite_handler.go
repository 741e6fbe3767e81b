package handler

import (
	"net/http"
	"strconv"

	"carhub/internal/middleware"
	"carhub/internal/repository"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favs *repository.FavoriteRepository
	cars *repository.CarRepository
}

func NewFavoriteHandler(favs *repository.FavoriteRepository, cars *repository.CarRepository) *FavoriteHandler {
	return &FavoriteHandler{favs: favs, cars: cars}
}

// Toggle adds or removes a favorite and keeps the car's counter in step.
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	carID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car id"})
		return
	}
	if _, err := h.cars.GetByID(uint(carID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
		return
	}

	already, err := h.favs.IsFavorite(userID, uint(carID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check favorite"})
		return
	}
	if already {
		if err := h.favs.Remove(userID, uint(carID)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove favorite"})
			return
		}
		_ = h.cars.IncrementFavorites(uint(carID), -1)
		c.JSON(http.StatusOK, gin.H{"message": "removed from favorites", "is_favorited": false})
		return
	}
	if err := h.favs.Add(userID, uint(carID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add favorite"})
		return
	}
	_ = h.cars.IncrementFavorites(uint(carID), 1)
	c.JSON(http.StatusOK, gin.H{"message": "added to favorites", "is_favorited": true})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	favs, err := h.favs.ListByUser(userID, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favs, "count": len(favs)})
}
