package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the administrator's reporting views.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Results handles GET /api/v1/admin/results.
func (h *ReportHandler) Results(c *gin.Context) {
	page, perPage, limit, offset := pagination(c)
	results, total, err := h.reports.Results(c.Request.Context(), limit, offset)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, results, buildPagination(page, perPage, total))
}

// AuditLogs handles GET /api/v1/admin/logs.
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	page, perPage, limit, offset := pagination(c)
	logs, total, err := h.reports.AuditLogs(c.Request.Context(), limit, offset)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, logs, buildPagination(page, perPage, total))
}
