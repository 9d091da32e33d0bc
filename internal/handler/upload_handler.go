package handler

import (
	"fmt"
	"net/http"

	"shere/internal/middleware"
	"shere/internal/repository"
	"shere/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

const maxAvatarBytes = 5 << 20

type UploadHandler struct {
	cloud    cloudinary.Client
	userRepo *repository.UserRepository
}

func NewUploadHandler(cloud cloudinary.Client, userRepo *repository.UserRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, userRepo: userRepo}
}

// Avatar handles POST /me/avatar (multipart field "image").
func (h *UploadHandler) Avatar(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large (max 5MB)"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
		return
	}
	defer f.Close()

	url, thumb, err := h.cloud.UploadImage(c.Request.Context(), f, "avatars", fmt.Sprintf("user_%d", userID))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	if err := h.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": url}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url, "thumbnail_url": thumb})
}
