package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/spa-scheduler/internal/config"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func router(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := []gin.HandlerFunc{AuthMiddleware(&config.Config{JWTSecret: secret})}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user": c.GetUint(ContextUserID),
			"role": c.GetString(ContextUserRole),
		})
	})

	r.GET("/", handlers...)
	return r
}

func call(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("valid token, role defaults to client", func(t *testing.T) {
		w := call(router(), sign(t, jwt.MapClaims{"sub": 12, "exp": exp}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":12,"role":"client"}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := call(router(), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing_authorization_header")
	})

	t.Run("wrong secret", func(t *testing.T) {
		bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 12, "exp": exp}).
			SignedString([]byte("other"))
		require.NoError(t, err)

		w := call(router(), bad)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_token")
	})

	t.Run("expired", func(t *testing.T) {
		w := call(router(), sign(t, jwt.MapClaims{"sub": 12, "exp": time.Now().Add(-time.Minute).Unix()}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("role gate", func(t *testing.T) {
		r := router(models.RoleTherapist, models.RoleStaff)

		w := call(r, sign(t, jwt.MapClaims{"sub": 12, "role": models.RoleClient, "exp": exp}))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = call(r, sign(t, jwt.MapClaims{"sub": 3, "role": models.RoleStaff, "exp": exp}))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
