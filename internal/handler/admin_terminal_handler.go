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

// AdminTerminalHandler serves the administrator's terminal management.
type AdminTerminalHandler struct {
	terminals *service.TerminalService
}

// NewAdminTerminalHandler creates a new AdminTerminalHandler.
func NewAdminTerminalHandler(terminals *service.TerminalService) *AdminTerminalHandler {
	return &AdminTerminalHandler{terminals: terminals}
}

// List handles GET /api/v1/admin/terminals.
func (h *AdminTerminalHandler) List(c *gin.Context) {
	terminals, err := h.terminals.List(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, terminals)
}

// Approve handles POST /api/v1/admin/terminals/:id/approve.
func (h *AdminTerminalHandler) Approve(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetClaims(c).Username
	if err := h.terminals.Approve(c.Request.Context(), actor, id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": model.TerminalStatusApproved})
}

// Reject handles POST /api/v1/admin/terminals/:id/reject.
func (h *AdminTerminalHandler) Reject(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetClaims(c).Username
	if err := h.terminals.Reject(c.Request.Context(), actor, id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": model.TerminalStatusRejected})
}

// Delete handles DELETE /api/v1/admin/terminals/:id.
func (h *AdminTerminalHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetClaims(c).Username
	if err := h.terminals.Delete(c.Request.Context(), actor, id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Assign handles PUT /api/v1/admin/terminals/:id/assignment. A null
// student_id clears the seat.
func (h *AdminTerminalHandler) Assign(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req model.AssignStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor := middleware.GetClaims(c).Username
	if err := h.terminals.AssignStudent(c.Request.Context(), actor, id, req.StudentID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assigned": req.StudentID != nil})
}

// LiveBoard handles GET /api/v1/admin/live-status.
func (h *AdminTerminalHandler) LiveBoard(c *gin.Context) {
	rows, err := h.terminals.LiveBoard(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}
