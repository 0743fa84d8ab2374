package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// TerminalHandler serves the unauthenticated terminal endpoints:
// registration and the status/heartbeat polling loop.
type TerminalHandler struct {
	terminals *service.TerminalService
}

// NewTerminalHandler creates a new TerminalHandler.
func NewTerminalHandler(terminals *service.TerminalService) *TerminalHandler {
	return &TerminalHandler{terminals: terminals}
}

// Register handles POST /api/v1/terminals/register.
func (h *TerminalHandler) Register(c *gin.Context) {
	var req model.RegisterTerminalRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.terminals.Register(c.Request.Context(), req.Name, c.ClientIP())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// Status handles GET /api/v1/terminals/:identifier/status. The poll is also
// the terminal's liveness signal.
func (h *TerminalHandler) Status(c *gin.Context) {
	details, err := h.terminals.GetStatus(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}

// Heartbeat handles POST /api/v1/terminals/:identifier/heartbeat.
func (h *TerminalHandler) Heartbeat(c *gin.Context) {
	var req model.HeartbeatRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.terminals.Heartbeat(c.Request.Context(), c.Param("identifier"), req.LiveStatus); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"acknowledged": true})
}
