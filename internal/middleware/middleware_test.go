package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(expiry time.Duration) *service.AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: expiry, BcryptCost: 4}
	return service.NewAuthService(cfg, nil, nil, nil)
}

func protected(auth *service.AuthService, roles ...service.Role) *gin.Engine {
	r := gin.New()
	r.GET("/p", RequireJWT(auth, roles...), func(c *gin.Context) {
		c.String(http.StatusOK, string(GetClaims(c).Role))
	})
	r.GET("/ws", RequireWSAuth(auth, roles...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireJWT(t *testing.T) {
	auth := newAuth(time.Hour)
	r := protected(auth, service.RoleAdmin, service.RoleFaculty)

	facultyToken, err := auth.GenerateToken(service.RoleFaculty, 3, "FAC0003", "Asha Iyer")
	require.NoError(t, err)
	studentToken, err := auth.GenerateToken(service.RoleStudent, 9, "21CS009", "Ira")
	require.NoError(t, err)

	w := do(r, "/p", facultyToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "faculty", w.Body.String())

	w = do(r, "/p?token="+facultyToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/p", studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	w = do(r, "/p", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REQUIRED")

	w = do(r, "/p", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
}

func TestRequireJWTExpired(t *testing.T) {
	auth := newAuth(-time.Minute)
	token, err := auth.GenerateToken(service.RoleAdmin, 1, "a@example.com", "Admin")
	require.NoError(t, err)

	w := do(protected(auth), "/p", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestRequireWSAuthUsesQueryOnly(t *testing.T) {
	auth := newAuth(time.Hour)
	r := protected(auth, service.RoleAdmin)
	token, err := auth.GenerateToken(service.RoleAdmin, 1, "a@example.com", "Admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(r, "/ws?token="+token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/ws", token).Code)
}

func TestRequireRole(t *testing.T) {
	auth := newAuth(time.Hour)
	r := gin.New()
	r.GET("/admin", RequireJWT(auth), RequireRole(service.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/bare", RequireRole(service.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	student, err := auth.GenerateToken(service.RoleStudent, 2, "21CS002", "Om")
	require.NoError(t, err)
	w := do(r, "/admin", student)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ADMIN_ACCESS_ONLY")

	assert.Equal(t, http.StatusUnauthorized, do(r, "/bare", "").Code)
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.Use(NoStore())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "/", "")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestBrotli(t *testing.T) {
	body := strings.Repeat("attendance ", 500)
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{
		Quality:   5,
		MinLength: 256,
		Skipper:   DownloadSkipper("/export"),
	}))
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, body) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/reports/export", func(c *gin.Context) { c.String(http.StatusOK, body) })

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/big")
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))

	w = get("/small")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	w = get("/reports/export")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, body, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
