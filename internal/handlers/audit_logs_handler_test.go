package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuditFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ict := time.FixedZone("ICT", 7*60*60)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET",
		"/audit-logs?action=booking_committed&entity=appointment&entity_id=9&user_id=3&from=2026-10-01&to=2026-10-17&page=2&limit=500", nil)

	f := parseAuditFilter(c, ict)

	assert.Equal(t, "booking_committed", f.Action)
	assert.Equal(t, "appointment", f.Entity)
	require.NotNil(t, f.EntityID)
	assert.Equal(t, uint64(9), *f.EntityID)
	require.NotNil(t, f.UserID)
	assert.Equal(t, uint64(3), *f.UserID)

	require.NotNil(t, f.From)
	assert.True(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, ict).Equal(*f.From))
	require.NotNil(t, f.To)
	assert.True(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, ict).Equal(*f.To))

	assert.Equal(t, 2, f.Page)
	assert.Equal(t, auditDefaultLimit, f.Limit)
}

func TestParseAuditFilterDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/audit-logs?user_id=abc&from=yesterday", nil)

	f := parseAuditFilter(c, time.UTC)

	assert.Nil(t, f.UserID)
	assert.Nil(t, f.From)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, auditDefaultLimit, f.Limit)
}
