package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/internal/services"
	apperrors "github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/metrics"
	"github.com/novalearn/novalearn-server/pkg/response"
	"github.com/novalearn/novalearn-server/pkg/validator"
)

// AccountHandler exposes the signup/verify/approve lifecycle over HTTP for
// all three portals.
type AccountHandler struct {
	svc *services.AccountService
}

// NewAccountHandler constructs an account handler.
func NewAccountHandler(svc *services.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type signupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`

	BusinessName string   `json:"business_name"`
	Location     string   `json:"location"`
	Subjects     []string `json:"subjects"`
}

type accountDTO struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Approved  bool   `json:"approved,omitempty"`
	CreatedAt string `json:"created_at"`
}

func mapAccount(account *models.Account) accountDTO {
	return accountDTO{
		ID:        account.ID,
		Kind:      string(account.Kind),
		Email:     account.Email,
		Status:    account.Status,
		Role:      account.Role,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Approved:  account.Approved,
		CreatedAt: account.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Signup creates a pending portal account and dispatches the verification
// email. A delivery failure is surfaced as a warning, not an error.
func (h *AccountHandler) Signup(kind models.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			metrics.SignupAttempts.WithLabelValues(string(kind), "invalid").Inc()
			response.Error(c, apperrors.NewBadRequest("invalid request body"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			metrics.SignupAttempts.WithLabelValues(string(kind), "invalid").Inc()
			response.Error(c, mapServiceError(err))
			return
		}

		result, err := h.svc.Signup(c.Request.Context(), kind, services.SignupInput{
			Email:        req.Email,
			Password:     req.Password,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			BusinessName: req.BusinessName,
			Location:     req.Location,
			Subjects:     req.Subjects,
		})
		if err != nil {
			result := "error"
			if err == services.ErrDuplicateEmail {
				result = "duplicate"
			} else if err == services.ErrEmailDomainNotAllowed {
				result = "invalid"
			}
			metrics.SignupAttempts.WithLabelValues(string(kind), result).Inc()
			response.Error(c, mapServiceError(err))
			return
		}

		metrics.SignupAttempts.WithLabelValues(string(kind), "created").Inc()
		dto := mapAccount(result.Account)
		if result.Warning != "" {
			response.SuccessWithWarning(c, http.StatusCreated, dto, result.Warning)
			return
		}
		response.Success(c, http.StatusCreated, dto)
	}
}

// VerifyEmail redeems a verification token and activates the account. The
// portal verification pages call this endpoint with the token from the link.
func (h *AccountHandler) VerifyEmail(kind models.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			response.Error(c, apperrors.NewBadRequest("token query parameter is required"))
			return
		}

		account, err := h.svc.ConfirmVerification(c.Request.Context(), token)
		if err != nil {
			result := "error"
			switch err {
			case services.ErrTokenNotFound:
				result = "not_found"
			case services.ErrTokenExpired:
				result = "expired"
			}
			metrics.VerificationOutcomes.WithLabelValues(string(kind), result).Inc()
			response.Error(c, mapServiceError(err))
			return
		}

		metrics.VerificationOutcomes.WithLabelValues(string(kind), "verified").Inc()
		response.Success(c, http.StatusOK, mapAccount(account))
	}
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerification issues and emails a fresh token for a pending account.
func (h *AccountHandler) ResendVerification(kind models.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperrors.NewBadRequest("invalid request body"))
			return
		}
		if err := validator.ValidateStruct(req); err != nil {
			response.Error(c, mapServiceError(err))
			return
		}

		if err := h.svc.ResendVerification(c.Request.Context(), kind, req.Email); err != nil {
			response.Error(c, mapServiceError(err))
			return
		}

		response.Success(c, http.StatusOK, gin.H{"resent": true})
	}
}

// List returns accounts of one kind for the admin console.
func (h *AccountHandler) List(c *gin.Context) {
	kind, ok := accountKindParam(c)
	if !ok {
		response.Error(c, apperrors.NewBadRequest("unknown account kind"))
		return
	}

	accounts, err := h.svc.List(c.Request.Context(), kind, c.Query("status"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	dtos := make([]accountDTO, 0, len(accounts))
	for i := range accounts {
		dtos = append(dtos, mapAccount(&accounts[i]))
	}
	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Total: len(dtos)})
}

// Approve activates an account; for staff it also sets the approved flag.
func (h *AccountHandler) Approve(c *gin.Context) {
	kind, ok := accountKindParam(c)
	if !ok {
		response.Error(c, apperrors.NewBadRequest("unknown account kind"))
		return
	}

	account, err := h.svc.Approve(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, mapAccount(account))
}

// Reject moves an account to the rejected state.
func (h *AccountHandler) Reject(c *gin.Context) {
	kind, ok := accountKindParam(c)
	if !ok {
		response.Error(c, apperrors.NewBadRequest("unknown account kind"))
		return
	}

	account, err := h.svc.Reject(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, mapAccount(account))
}

// Promote elevates a verified admin account to the admin role. Only the
// admin kind has roles to promote into.
func (h *AccountHandler) Promote(c *gin.Context) {
	kind, ok := accountKindParam(c)
	if !ok || kind != models.KindAdmin {
		response.Error(c, apperrors.NewBadRequest("promotion applies to admin accounts only"))
		return
	}

	account, err := h.svc.Promote(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, mapAccount(account))
}

// Delete removes an account outright.
func (h *AccountHandler) Delete(c *gin.Context) {
	kind, ok := accountKindParam(c)
	if !ok {
		response.Error(c, apperrors.NewBadRequest("unknown account kind"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
