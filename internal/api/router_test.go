package api

import (
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

	"github.com/novalearn/novalearn-server/internal/app"
	iauth "github.com/novalearn/novalearn-server/internal/auth"
	"github.com/novalearn/novalearn-server/internal/database"
	"github.com/novalearn/novalearn-server/pkg/mail"
	"github.com/novalearn/novalearn-server/pkg/messaging"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateAndSeed(db, database.SeedConfig{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-secret-test-secret-test-secret",
		Issuer:         "novalearn-test",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)

	mailer, err := mail.NewSMTPMailer(mail.SMTPSettings{})
	require.NoError(t, err)
	messenger, err := messaging.NewGatewayMessenger(messaging.GatewaySettings{}, nil)
	require.NoError(t, err)

	router, err := NewRouter(db, jwt, cfg, mailer, messenger)
	require.NoError(t, err)
	return router
}

func TestRouterHealthAndPublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/health",
		"/metrics",
		"/api/blog",
		"/api/courses",
		"/api/gallery",
		"/api/portfolio",
		"/api/testimonials",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterGatesProtectedRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/accounts/admin", http.StatusUnauthorized},
		{http.MethodGet, "/api/registrations", http.StatusUnauthorized},
		{http.MethodPost, "/api/blog", http.StatusUnauthorized},
		{http.MethodGet, "/api/manage/schedules", http.StatusUnauthorized},
		// No job token configured means the route is open; it still refuses
		// because messaging is disabled by default.
		{http.MethodPost, "/api/jobs/reminders/run", http.StatusServiceUnavailable},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		require.Equal(t, route.want, w.Code, "%s %s", route.method, route.path)
	}
}

func TestRouterNilDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := NewRouter(nil, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestRouterSignupFlowEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	// SMTP is disabled in the default config; signup must still succeed
	// and report the delivery problem as a warning.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/signup",
		strings.NewReader(`{"email": "ada@example.com", "password": "secret123!", "first_name": "Ada", "last_name": "Obi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Warning string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Warning)
}
