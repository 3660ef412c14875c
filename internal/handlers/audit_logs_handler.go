package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: loc}
}

// auditFilter is the parsed query of GET /audit-logs. From and To are spa-local days;
// To is inclusive.
type auditFilter struct {
	Action   string
	Entity   string
	EntityID *uint64
	UserID   *uint64
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

func parseAuditFilter(c *gin.Context, loc *time.Location) auditFilter {
	f := auditFilter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   1,
		Limit:  auditDefaultLimit,
	}

	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= auditMaxLimit {
		f.Limit = n
	}

	if id, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil {
		f.UserID = &id
	}
	if id, err := strconv.ParseUint(c.Query("entity_id"), 10, 64); err == nil {
		f.EntityID = &id
	}

	if d, err := parseDateIn(loc, c.Query("from")); err == nil {
		f.From = &d
	}
	if d, err := parseDateIn(loc, c.Query("to")); err == nil {
		end := d.AddDate(0, 0, 1)
		f.To = &end
	}

	return f
}

func (f auditFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	return q
}

// List is staff only.
func (h *AuditLogsHandler) List(c *gin.Context) {
	f := parseAuditFilter(c, h.loc)

	q := f.apply(h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Failed to count audit logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	httpresp.Page(c, logs, f.Page, f.Limit, total)
}
