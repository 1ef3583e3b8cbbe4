package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planner-app/database"
	"planner-app/internal/domain/access"
	"planner-app/internal/lib/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(postgres.Open("host=localhost user=planner dbname=planner sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	store := database.NewStore(db)
	log := logger.Discard()
	r := gin.New()
	RegisterRoutes(r, Deps{
		Store:              store,
		Resolver:           access.NewResolver(store, log, time.Now),
		Log:                log,
		JWTSecret:          "test-secret",
		LoginRatePerMinute: 1,
	})
	return r
}

func TestPublicRoutes(t *testing.T) {
	r := newTestEngine(t)

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestEngine(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/plans/2026-01-10"},
		{http.MethodPut, "/plans/2026-01-10"},
		{http.MethodPost, "/plans/2026-01-10/deep_work"},
		{http.MethodDelete, "/plans/2026-01-10/deep_work/abc"},
		{http.MethodGet, "/timeline"},
		{http.MethodGet, "/quick-wins"},
		{http.MethodGet, "/history"},
		{http.MethodGet, "/admin/users"},
		{http.MethodPost, "/billing-portal"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.method+" "+rt.path)
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	r := newTestEngine(t)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.NotEqual(t, http.StatusTooManyRequests, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[1])

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "203.0.113.9:4100"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, other)
	assert.NotEqual(t, http.StatusTooManyRequests, w.Code)
}

func TestGoogleRoutesOffWithoutConfig(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
