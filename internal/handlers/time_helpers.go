package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/spa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/spa-scheduler/internal/timezone"
)

func parseDateIn(loc *time.Location, dateStr string) (time.Time, error) {
	return timezone.ParseDate(dateStr, loc)
}

func currentUser(c *gin.Context) (uint, string) {
	return c.GetUint(middleware.ContextUserID), c.GetString(middleware.ContextUserRole)
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
