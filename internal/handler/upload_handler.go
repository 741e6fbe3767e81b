package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"carhub/internal/middleware"
	"carhub/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type UploadHandler struct {
	cloud    cloudinary.Client
	maxBytes int64
}

func NewUploadHandler(cloud cloudinary.Client, maxBytes int64) *UploadHandler {
	return &UploadHandler{cloud: cloud, maxBytes: maxBytes}
}

// Image accepts a multipart image upload and returns the hosted URLs.
// Files land in a per-user folder so cleanup is straightforward.
func (h *UploadHandler) Image(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
		return
	}
	userID := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("image exceeds %d byte limit", h.maxBytes)})
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only jpeg, png and webp images are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	folder := fmt.Sprintf("carhub/users/%d", userID)
	publicID := uuid.New().String()
	url, thumbURL, err := h.cloud.UploadImage(c.Request.Context(), file, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":           url,
		"thumbnail_url": thumbURL,
		"public_id":     publicID,
	})
}
