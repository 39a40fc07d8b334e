package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalearn/novalearn-server/internal/services"
	apperrors "github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/response"
	"github.com/novalearn/novalearn-server/pkg/validator"
)

// RegistrationHandler exposes public course enquiries and the admin pipeline.
type RegistrationHandler struct {
	svc *services.RegistrationService
}

// NewRegistrationHandler constructs a registration handler.
func NewRegistrationHandler(svc *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

type registrationRequest struct {
	StudentName  string `json:"student_name" validate:"required"`
	GuardianName string `json:"guardian_name"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	CourseID     string `json:"course_id" validate:"omitempty,uuid"`
	Message      string `json:"message"`
}

type registrationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted enrolled closed"`
}

// Create accepts a public course registration enquiry.
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	registration, err := h.svc.Create(c.Request.Context(), services.RegistrationInput{
		StudentName:  req.StudentName,
		GuardianName: req.GuardianName,
		Email:        req.Email,
		Phone:        req.Phone,
		CourseID:     req.CourseID,
		Message:      req.Message,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, registration)
}

// List returns registrations for the admin console, optionally filtered by
// pipeline status.
func (h *RegistrationHandler) List(c *gin.Context) {
	registrations, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, registrations, &response.Meta{Total: len(registrations)})
}

// Get returns a single registration.
func (h *RegistrationHandler) Get(c *gin.Context) {
	registration, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, registration)
}

// UpdateStatus moves a registration through the enquiry pipeline.
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	var req registrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	registration, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, registration)
}

// Delete removes a registration.
func (h *RegistrationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
