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

// CourseHandler exposes course CRUD.
type CourseHandler struct {
	svc *services.CourseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc *services.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

type courseRequest struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description"`
	Level         string   `json:"level"`
	DurationWeeks int      `json:"duration_weeks" validate:"omitempty,min=1"`
	Price         float64  `json:"price" validate:"omitempty,min=0"`
	Syllabus      []string `json:"syllabus"`
	Status        string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type courseUpdateRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Level         *string  `json:"level"`
	DurationWeeks *int     `json:"duration_weeks"`
	Price         *float64 `json:"price"`
	Syllabus      []string `json:"syllabus"`
	Status        *string  `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// ListPublished returns published courses for the public site.
func (h *CourseHandler) ListPublished(c *gin.Context) {
	courses, err := h.svc.List(c.Request.Context(), models.ContentStatusPublished)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, courses, &response.Meta{Total: len(courses)})
}

// List returns all courses for the admin console.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, courses, &response.Meta{Total: len(courses)})
}

// Create adds a course.
func (h *CourseHandler) Create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	course, err := h.svc.Create(c.Request.Context(), services.CourseInput{
		Title:         req.Title,
		Description:   req.Description,
		Level:         req.Level,
		DurationWeeks: req.DurationWeeks,
		Price:         req.Price,
		Syllabus:      req.Syllabus,
		Status:        req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// Update patches a course.
func (h *CourseHandler) Update(c *gin.Context) {
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	course, err := h.svc.Update(c.Request.Context(), c.Param("id"), services.UpdateCourseInput{
		Title:         req.Title,
		Description:   req.Description,
		Level:         req.Level,
		DurationWeeks: req.DurationWeeks,
		Price:         req.Price,
		Syllabus:      req.Syllabus,
		Status:        req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, course)
}

// Delete removes a course.
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
