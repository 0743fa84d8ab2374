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

// QuestionHandler serves the administrator's question bank management.
type QuestionHandler struct {
	questions *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questions *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// List handles GET /api/v1/admin/questions.
func (h *QuestionHandler) List(c *gin.Context) {
	page, perPage, limit, offset := pagination(c)
	questions, total, err := h.questions.List(c.Request.Context(), limit, offset)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, questions, buildPagination(page, perPage, total))
}

// Get handles GET /api/v1/admin/questions/:id.
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	q, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// Create handles POST /api/v1/admin/questions.
func (h *QuestionHandler) Create(c *gin.Context) {
	var req model.SaveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor := middleware.GetClaims(c).Username
	q, err := h.questions.Create(c.Request.Context(), actor, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, q)
}

// Update handles PUT /api/v1/admin/questions/:id.
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req model.SaveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor := middleware.GetClaims(c).Username
	q, err := h.questions.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// Delete handles DELETE /api/v1/admin/questions/:id.
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetClaims(c).Username
	if err := h.questions.Delete(c.Request.Context(), actor, id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
