package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/internal/services"
	apperrors "github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/response"
	"github.com/novalearn/novalearn-server/pkg/validator"
)

// GalleryHandler exposes gallery image CRUD.
type GalleryHandler struct {
	svc *services.GalleryService
}

// NewGalleryHandler constructs a gallery handler.
func NewGalleryHandler(svc *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{svc: svc}
}

type galleryImageRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url" validate:"required,url"`
	Category string `json:"category"`
	Status   string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type galleryImageUpdateRequest struct {
	Title    *string `json:"title"`
	ImageURL *string `json:"image_url"`
	Category *string `json:"category"`
	Status   *string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// ListPublished returns published images for the public site.
func (h *GalleryHandler) ListPublished(c *gin.Context) {
	images, err := h.svc.List(c.Request.Context(), models.ContentStatusPublished, c.Query("category"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, images, &response.Meta{Total: len(images)})
}

// List returns all images for the admin console.
func (h *GalleryHandler) List(c *gin.Context) {
	images, err := h.svc.List(c.Request.Context(), c.Query("status"), c.Query("category"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, images, &response.Meta{Total: len(images)})
}

// Create adds an image.
func (h *GalleryHandler) Create(c *gin.Context) {
	var req galleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	image, err := h.svc.Create(c.Request.Context(), services.GalleryImageInput{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Category: req.Category,
		Status:   req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, image)
}

// Update patches an image.
func (h *GalleryHandler) Update(c *gin.Context) {
	var req galleryImageUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	image, err := h.svc.Update(c.Request.Context(), c.Param("id"), services.UpdateGalleryImageInput{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Category: req.Category,
		Status:   req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, image)
}

// Delete removes an image.
func (h *GalleryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
