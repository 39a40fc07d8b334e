package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalearn/novalearn-server/internal/services"
	apperrors "github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/response"
	"github.com/novalearn/novalearn-server/pkg/validator"
)

// ScheduleHandler exposes student and class schedule management.
type ScheduleHandler struct {
	svc *services.ScheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

type studentRequest struct {
	Name          string `json:"name" validate:"required"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	School        string `json:"school"`
}

type scheduleRequest struct {
	StudentID           string `json:"student_id" validate:"required,uuid"`
	StaffID             string `json:"staff_id" validate:"omitempty,uuid"`
	Subject             string `json:"subject" validate:"required"`
	DayOfWeek           string `json:"day_of_week" validate:"required"`
	StartTime           string `json:"start_time" validate:"required"`
	ReminderEnabled     *bool  `json:"reminder_enabled"`
	ReminderLeadMinutes int    `json:"reminder_lead_minutes" validate:"omitempty,min=1,max=1440"`
	IsActive            *bool  `json:"is_active"`
}

// CreateStudent registers a student record.
func (h *ScheduleHandler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	student, err := h.svc.CreateStudent(c.Request.Context(), services.StudentInput{
		Name:          req.Name,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		School:        req.School,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, student)
}

// ListStudents returns all students.
func (h *ScheduleHandler) ListStudents(c *gin.Context) {
	students, err := h.svc.ListStudents(c.Request.Context())
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, students, &response.Meta{Total: len(students)})
}

// CreateSchedule registers a weekly class slot.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	schedule, err := h.svc.CreateSchedule(c.Request.Context(), services.ScheduleInput{
		StudentID:           req.StudentID,
		StaffID:             req.StaffID,
		Subject:             req.Subject,
		DayOfWeek:           req.DayOfWeek,
		StartTime:           req.StartTime,
		ReminderEnabled:     req.ReminderEnabled,
		ReminderLeadMinutes: req.ReminderLeadMinutes,
		IsActive:            req.IsActive,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, schedule)
}

// ListSchedules returns schedules, optionally filtered by day of week.
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.svc.ListSchedules(c.Request.Context(), c.Query("day"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, schedules, &response.Meta{Total: len(schedules)})
}

// DeleteSchedule removes a class slot.
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	if err := h.svc.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
