package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// ExamHandler serves the administrator's exam management.
type ExamHandler struct {
	exams *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// List handles GET /api/v1/admin/exams?status=...
func (h *ExamHandler) List(c *gin.Context) {
	var status *model.ExamStatus
	if raw := c.Query("status"); raw != "" {
		s := model.ExamStatus(raw)
		switch s {
		case model.ExamStatusScheduled, model.ExamStatusInProgress, model.ExamStatusCompleted:
			status = &s
		default:
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
	}

	page, perPage, limit, offset := pagination(c)
	exams, total, err := h.exams.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, exams, buildPagination(page, perPage, total))
}

// Get handles GET /api/v1/admin/exams/:id.
func (h *ExamHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	exam, err := h.exams.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}

// Create handles POST /api/v1/admin/exams.
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.ScheduleExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor := middleware.GetClaims(c).Username
	exam, err := h.exams.Schedule(c.Request.Context(), actor, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, exam)
}

// Update handles PUT /api/v1/admin/exams/:id.
func (h *ExamHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor := middleware.GetClaims(c).Username
	exam, err := h.exams.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}

// Start handles POST /api/v1/admin/exams/:id/start.
func (h *ExamHandler) Start(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetClaims(c).Username
	exam, err := h.exams.Start(c.Request.Context(), actor, id)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}

// End handles POST /api/v1/admin/exams/:id/end.
func (h *ExamHandler) End(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetClaims(c).Username
	if err := h.exams.End(c.Request.Context(), actor, id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": model.ExamStatusCompleted})
}

// Delete handles DELETE /api/v1/admin/exams/:id.
func (h *ExamHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetClaims(c).Username
	if err := h.exams.Delete(c.Request.Context(), actor, id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
