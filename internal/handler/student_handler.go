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

// StudentHandler serves the administrator's student roster management.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List handles GET /api/v1/admin/students.
func (h *StudentHandler) List(c *gin.Context) {
	page, perPage, limit, offset := pagination(c)
	students, total, err := h.students.List(c.Request.Context(), limit, offset)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, students, buildPagination(page, perPage, total))
}

// Get handles GET /api/v1/admin/students/:id.
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// Create handles POST /api/v1/admin/students.
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor := middleware.GetClaims(c).Username
	student, err := h.students.Create(c.Request.Context(), actor, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, student)
}

// Update handles PUT /api/v1/admin/students/:id.
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor := middleware.GetClaims(c).Username
	student, err := h.students.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// Delete handles DELETE /api/v1/admin/students/:id.
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := middleware.GetClaims(c).Username
	if err := h.students.Delete(c.Request.Context(), actor, id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
