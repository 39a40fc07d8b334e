package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	iauth "github.com/novalearn/novalearn-server/internal/auth"
	"github.com/novalearn/novalearn-server/internal/middleware"
	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/internal/services"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *services.AccountService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.VerificationToken{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	tokens, err := services.NewVerificationService(db)
	require.NoError(t, err)
	mailer := &stubMailer{}
	accounts, err := services.NewAccountService(db, tokens, mailer, nil,
		services.WithBaseURL("https://novalearn.example.com"))
	require.NoError(t, err)

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-secret-test-secret-test-secret",
		Issuer:         "novalearn-test",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	handler := NewAuthHandler(accounts, jwt)

	r := gin.New()
	r.POST("/api/auth/login", handler.Login)
	r.GET("/api/auth/me", middleware.Auth(jwt), handler.Me)

	// Seed an active admin via the real signup/verify path.
	_, err = accounts.Signup(context.Background(), models.KindAdmin, services.SignupInput{
		Email:     "admin@example.com",
		Password:  "secret123!",
		FirstName: "Ada",
		LastName:  "Obi",
	})
	require.NoError(t, err)
	require.Len(t, mailer.messages, 1)
	_, err = accounts.ConfirmVerification(context.Background(), extractToken(t, mailer.messages[0].Body))
	require.NoError(t, err)

	return r, accounts
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	body := `{"kind": "admin", "email": "admin@example.com", "password": "secret123!"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	require.True(t, resp.Success)

	var payload struct {
		Token   string     `json:"token"`
		Account accountDTO `json:"account"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.NotEmpty(t, payload.Token)
	require.Equal(t, "admin@example.com", payload.Account.Email)
	require.Equal(t, "active", payload.Account.Status)

	// The issued token works against /me.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+payload.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var me accountDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &me))
	require.Equal(t, payload.Account.ID, me.ID)
}

func TestLoginEndpointRejectsBadCredentials(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"kind": "admin", "email": "admin@example.com", "password": "wrong"}`, http.StatusUnauthorized},
		{"unknown email", `{"kind": "admin", "email": "nobody@example.com", "password": "secret123!"}`, http.StatusUnauthorized},
		{"wrong portal", `{"kind": "staff", "email": "admin@example.com", "password": "secret123!"}`, http.StatusUnauthorized},
		{"bad kind", `{"kind": "root", "email": "admin@example.com", "password": "secret123!"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestLoginEndpointRejectsPendingAccount(t *testing.T) {
	r, accounts := newAuthTestRouter(t)

	_, err := accounts.Signup(context.Background(), models.KindStaff, services.SignupInput{
		Email:     "staff@example.com",
		Password:  "secret123!",
		FirstName: "Kemi",
		LastName:  "Bello",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"kind": "staff", "email": "staff@example.com", "password": "secret123!"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "ACCOUNT_NOT_ACTIVE", decodeEnvelope(t, w).Error.Code)
}
