package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"carhub/internal/domain"
	"carhub/internal/middleware"
	"carhub/internal/models"
	"carhub/internal/repository"
	"carhub/internal/service"
	"carhub/internal/validation"
	"carhub/pkg/cache"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CarHandler struct {
	cars       *repository.CarRepository
	users      *repository.UserRepository
	favs       *repository.FavoriteRepository
	moderation *service.ModerationService
	listCache  *cache.Cache
	maxImage   int64
}

func NewCarHandler(cars *repository.CarRepository, users *repository.UserRepository, favs *repository.FavoriteRepository, moderation *service.ModerationService, listCache *cache.Cache, maxImageBytes int64) *CarHandler {
	return &CarHandler{cars: cars, users: users, favs: favs, moderation: moderation, listCache: listCache, maxImage: maxImageBytes}
}

type CreateCarRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Make         string   `json:"make" binding:"required"`
	Model        string   `json:"model" binding:"required"`
	Year         int      `json:"year" binding:"required"`
	Mileage      int      `json:"mileage"`
	EngineSize   string   `json:"engine_size"`
	FuelType     string   `json:"fuel_type" binding:"required"`
	Transmission string   `json:"transmission" binding:"required"`
	Drivetrain   string   `json:"drivetrain"`
	Category     string   `json:"category" binding:"required"`
	BodyType     string   `json:"body_type"`
	Condition    string   `json:"condition" binding:"required"`
	ListingType  string   `json:"listing_type" binding:"required"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	PriceType    string   `json:"price_type"`
	Images       []string `json:"images"`
	Features     string   `json:"features"`
	City         string   `json:"location_city"`
	State        string   `json:"location_state"`
	ZipCode      string   `json:"location_zip_code"`
	Country      string   `json:"location_country"`
	ContactPhone string   `json:"contact_phone"`
	ContactEmail string   `json:"contact_email"`
	VIN          string   `json:"vin"`
}

func (req *CreateCarRequest) toModel() *models.Car {
	images := make([]models.CarImage, len(req.Images))
	for i, data := range req.Images {
		images[i] = models.CarImage{Data: data, Position: i}
	}
	return &models.Car{
		Title:           req.Title,
		Description:     req.Description,
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		Mileage:         req.Mileage,
		EngineSize:      req.EngineSize,
		FuelType:        req.FuelType,
		Transmission:    req.Transmission,
		Drivetrain:      req.Drivetrain,
		Category:        req.Category,
		BodyType:        req.BodyType,
		Condition:       req.Condition,
		ListingType:     req.ListingType,
		Price:           req.Price,
		Currency:        req.Currency,
		PriceType:       req.PriceType,
		Images:          images,
		Features:        req.Features,
		LocationCity:    req.City,
		LocationState:   req.State,
		LocationZipCode: req.ZipCode,
		LocationCountry: req.Country,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
		VIN:             req.VIN,
	}
}

// Create submits a new listing; it always lands in pending state and
// triggers the admin approval fan-out.
func (h *CarHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	owner, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, img := range req.Images {
		if err := validation.ValidateImageDataURL(img, h.maxImage); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	car, err := h.moderation.SubmitListing(owner, req.toModel())
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"errors": verr.Violations,
			})
			return
		}
		log.Printf("[cars] create failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create listing"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "listing created and submitted for approval",
		"car":     car,
	})
}

// List is the public search endpoint. The first anonymous pages are
// served from cache when redis is configured.
func (h *CarHandler) List(c *gin.Context) {
	f := repository.CarFilter{
		PublicOnly:   true,
		Make:         c.Query("make"),
		Model:        c.Query("model"),
		Category:     c.Query("category"),
		FuelType:     c.Query("fuel_type"),
		Transmission: c.Query("transmission"),
		ListingType:  c.Query("listing_type"),
		Condition:    c.Query("condition"),
		City:         c.Query("city"),
		State:        c.Query("state"),
		Search:       c.Query("search"),
		SortBy:       c.Query("sort_by"),
	}
	f.MinPrice, _ = strconv.ParseFloat(c.Query("min_price"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price"), 64)
	f.MinYear, _ = strconv.Atoi(c.Query("min_year"))
	f.MaxYear, _ = strconv.Atoi(c.Query("max_year"))
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "12"))

	type listPage struct {
		Cars  []models.Car `json:"cars"`
		Total int64        `json:"total"`
	}
	userID := middleware.GetUserID(c)
	key := cache.Key("cars:list", f)
	var page listPage
	hit := userID == 0 && h.listCache.Get(c.Request.Context(), key, &page)
	if !hit {
		cars, total, err := h.cars.List(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch cars"})
			return
		}
		page = listPage{Cars: cars, Total: total}
		if userID == 0 {
			h.listCache.Set(c.Request.Context(), key, page)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"cars":       page.Cars,
		"count":      len(page.Cars),
		"total":      page.Total,
		"pagination": paginationMeta(f.Page, f.Limit, page.Total),
	})
}

// Get returns one listing. Non-active listings are visible only to
// their owner and admins. Views are counted on public hits.
func (h *CarHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	car, err := h.cars.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
		return
	}
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	if car.Status != domain.CarStatusActive && userID != car.OwnerID && role != domain.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
		return
	}
	if userID != car.OwnerID {
		if err := h.cars.IncrementViews(car.ID); err != nil {
			log.Printf("[cars] view count for car %d: %v", car.ID, err)
		}
	}
	resp := gin.H{"car": car}
	if userID != 0 {
		fav, _ := h.favs.IsFavorite(userID, car.ID)
		resp["is_favorited"] = fav
	}
	c.JSON(http.StatusOK, resp)
}

// MyListings returns the caller's own cars, any status.
func (h *CarHandler) MyListings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	f := repository.CarFilter{
		OwnerID: userID,
		Status:  c.Query("status"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "12"))
	cars, total, err := h.cars.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cars":       cars,
		"count":      len(cars),
		"total":      total,
		"pagination": paginationMeta(f.Page, f.Limit, total),
	})
}

// Update lets the owner edit non-status fields. Edits never change the
// moderation state of the listing.
func (h *CarHandler) Update(c *gin.Context) {
	car, ok := h.ownedCar(c)
	if !ok {
		return
	}
	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, img := range req.Images {
		if err := validation.ValidateImageDataURL(img, h.maxImage); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	updated := req.toModel()
	updated.ID = car.ID
	updated.OwnerID = car.OwnerID
	updated.OwnerType = car.OwnerType
	updated.Status = car.Status
	updated.IsAvailable = car.IsAvailable
	updated.Slug = car.Slug
	if err := validation.ValidateCar(updated); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verr.Violations})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	images := updated.Images
	updated.Images = nil
	if err := h.cars.Update(updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update listing"})
		return
	}
	// A present-but-empty images array clears the gallery; an omitted
	// key leaves it alone.
	if req.Images != nil {
		if err := h.cars.ReplaceImages(car.ID, images); err != nil {
			log.Printf("[cars] image replace for car %d: %v", car.ID, err)
		}
	}
	fresh, err := h.cars.GetByID(car.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reload listing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing updated", "car": fresh})
}

// Delete removes the owner's listing.
func (h *CarHandler) Delete(c *gin.Context) {
	car, ok := h.ownedCar(c)
	if !ok {
		return
	}
	if err := h.cars.Delete(car.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete listing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}

// UpdateStatus applies owner-driven status changes (sold/rented/
// inactive/active). Pending listings are off limits; approval belongs
// to the moderation flow.
func (h *CarHandler) UpdateStatus(c *gin.Context) {
	car, ok := h.ownedCar(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := false
	for _, s := range domain.OwnerStatuses {
		if req.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if car.Status == domain.CarStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing is pending approval"})
		return
	}
	if err := h.cars.SetOwnerStatus(car.ID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update status"})
		return
	}
	fresh, _ := h.cars.GetByID(car.ID)
	c.JSON(http.StatusOK, gin.H{"message": "status updated", "car": fresh})
}

// Approve is the admin approval endpoint: pending -> active.
func (h *CarHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject is the admin rejection endpoint: the listing is removed and
// the owner notified with the reason.
func (h *CarHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *CarHandler) decide(c *gin.Context, approve bool) {
	adminID := middleware.GetUserID(c)
	admin, err := h.users.GetByID(adminID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var reason string
	if !approve {
		var req struct {
			Reason string `json:"reason"`
		}
		_ = c.ShouldBindJSON(&req)
		reason = req.Reason
	}
	decision, err := h.moderation.Decide(admin, uint(id), approve, reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCarNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotPending):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[cars] decide car %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process decision"})
		}
		return
	}
	if approve {
		c.JSON(http.StatusOK, gin.H{"message": "listing approved", "car": decision.Car})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "listing rejected and removed",
		"car_title": decision.CarTitle,
		"reason":    decision.Reason,
	})
}

// ownedCar loads the path car and enforces ownership (admins pass).
func (h *CarHandler) ownedCar(c *gin.Context) (*models.Car, bool) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	car, err := h.cars.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch car"})
		}
		return nil, false
	}
	userID := middleware.GetUserID(c)
	if car.OwnerID != userID && middleware.GetRole(c) != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your listing"})
		return nil, false
	}
	return car, true
}

func paginationMeta(page, limit int, total int64) gin.H {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return gin.H{
		"page":     page,
		"pages":    pages,
		"limit":    limit,
		"has_next": page < pages,
		"has_prev": page > 1,
	}
}
