package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/vet-scheduler/internal/audit"
	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
	"github.com/BruksfildServices01/vet-scheduler/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

// maxAuditOffset bounds (page-1)*limit so the offset cannot overflow.
const maxAuditOffset = 1_000_000

type AuditLogsHandler struct {
	reader audit.Reader
}

func NewAuditLogsHandler(reader audit.Reader) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	if page-1 > maxAuditOffset/limit {
		page = maxAuditOffset/limit + 1
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		f.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := to.Add(24 * time.Hour)
		f.To = &end
	}

	logs, total, err := h.reader.ListAuditLogs(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "audit_list_failed", "Error al listar la auditoría.")
		return
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
