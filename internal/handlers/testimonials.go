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

// TestimonialHandler exposes testimonial submission and moderation.
type TestimonialHandler struct {
	svc *services.TestimonialService
}

// NewTestimonialHandler constructs a testimonial handler.
func NewTestimonialHandler(svc *services.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{svc: svc}
}

type testimonialRequest struct {
	AuthorName string `json:"author_name" validate:"required"`
	AuthorRole string `json:"author_role"`
	Quote      string `json:"quote" validate:"required"`
	Rating     int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

type testimonialUpdateRequest struct {
	AuthorName *string `json:"author_name"`
	AuthorRole *string `json:"author_role"`
	Quote      *string `json:"quote"`
	Rating     *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Status     *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// ListApproved returns approved testimonials for the public site.
func (h *TestimonialHandler) ListApproved(c *gin.Context) {
	testimonials, err := h.svc.List(c.Request.Context(), models.TestimonialStatusApproved)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, testimonials, &response.Meta{Total: len(testimonials)})
}

// List returns all testimonials for the admin console.
func (h *TestimonialHandler) List(c *gin.Context) {
	testimonials, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, testimonials, &response.Meta{Total: len(testimonials)})
}

// Create accepts a public testimonial submission. New entries wait in the
// pending state until moderated.
func (h *TestimonialHandler) Create(c *gin.Context) {
	var req testimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	testimonial, err := h.svc.Create(c.Request.Context(), services.TestimonialInput{
		AuthorName: req.AuthorName,
		AuthorRole: req.AuthorRole,
		Quote:      req.Quote,
		Rating:     req.Rating,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, testimonial)
}

// Update patches a testimonial, including moderation status changes.
func (h *TestimonialHandler) Update(c *gin.Context) {
	var req testimonialUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	testimonial, err := h.svc.Update(c.Request.Context(), c.Param("id"), services.UpdateTestimonialInput{
		AuthorName: req.AuthorName,
		AuthorRole: req.AuthorRole,
		Quote:      req.Quote,
		Rating:     req.Rating,
		Status:     req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, testimonial)
}

// Delete removes a testimonial.
func (h *TestimonialHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
