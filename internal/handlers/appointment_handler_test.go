package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/spa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/spa-scheduler/internal/usecase/appointment"
)

// The client role is refused by the use case before any storage access, so a nil
// repository is enough to see whether the request got past body parsing.
func cancelRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ict := time.FixedZone("ICT", 7*60*60)

	cancel := ucAppointment.NewCancelAppointment(nil, nil, timezone.LocationClock{Loc: ict})
	h := NewAppointmentHandler(nil, nil, nil, cancel, nil, nil, nil, ict)

	r := gin.New()
	r.PATCH("/appointments/:id/cancel", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(1))
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}, h.Cancel)
	return r
}

func TestCancelBody(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"reason":`, http.StatusBadRequest, "invalid_request"},
		{"wrong type", `{"reason":42}`, http.StatusBadRequest, "invalid_request"},
		{"empty body is accepted", ``, http.StatusForbidden, "forbidden"},
		{"reason given", `{"reason":"sick"}`, http.StatusForbidden, "forbidden"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/appointments/5/cancel", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			cancelRouter(models.RoleClient).ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["error_code"])
		})
	}
}
