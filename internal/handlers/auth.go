package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/novalearn/novalearn-server/internal/auth"
	"github.com/novalearn/novalearn-server/internal/middleware"
	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/internal/services"
	apperrors "github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/response"
	"github.com/novalearn/novalearn-server/pkg/validator"
)

// AuthHandler issues portal access tokens for verified accounts.
type AuthHandler struct {
	accounts *services.AccountService
	jwt      *iauth.JWTService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(accounts *services.AccountService, jwt *iauth.JWTService) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwt: jwt}
}

type loginRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=admin franchise staff"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login validates credentials for a portal and returns a signed access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	account, err := h.accounts.Authenticate(c.Request.Context(), models.AccountKind(req.Kind), req.Email, req.Password)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	token, err := h.jwt.GenerateAccessToken(iauth.AccessTokenInput{
		AccountID: account.ID,
		Kind:      string(account.Kind),
		Role:      account.Role,
	})
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "failed to issue access token"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"account": mapAccount(account),
	})
}

// Me returns the account behind the presented access token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	account, err := h.accounts.Get(c.Request.Context(), models.AccountKind(claims.Kind), claims.AccountID)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.Success(c, http.StatusOK, mapAccount(account))
}
