package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novalearn/novalearn-server/internal/services"
	apperrors "github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/response"
)

// ReminderHandler exposes the reminder scan job trigger.
type ReminderHandler struct {
	svc              *services.ReminderService
	messagingEnabled bool
	now              func() time.Time
}

// ReminderHandlerOption customises the ReminderHandler.
type ReminderHandlerOption func(*ReminderHandler)

// WithReminderNow overrides the wall clock used for scans.
func WithReminderNow(now func() time.Time) ReminderHandlerOption {
	return func(h *ReminderHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewReminderHandler constructs a reminder handler. messagingEnabled gates
// the trigger: when the chat gateway is not configured the job refuses to
// run rather than burning a scan that cannot deliver.
func NewReminderHandler(svc *services.ReminderService, messagingEnabled bool, opts ...ReminderHandlerOption) *ReminderHandler {
	handler := &ReminderHandler{
		svc:              svc,
		messagingEnabled: messagingEnabled,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(handler)
	}
	return handler
}

// Run executes one reminder scan pass and reports per-recipient outcomes.
func (h *ReminderHandler) Run(c *gin.Context) {
	if !h.messagingEnabled {
		response.Error(c, apperrors.ErrServiceNotConfigured)
		return
	}

	report, err := h.svc.Scan(c.Request.Context(), h.now())
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, report)
}
