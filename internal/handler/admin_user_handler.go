package handler

import (
	"net/http"
	"strconv"

	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AdminUserHandler serves administrator account management. Superadmin only.
type AdminUserHandler struct {
	admins *service.AdminService
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(admins *service.AdminService) *AdminUserHandler {
	return &AdminUserHandler{admins: admins}
}

// List handles GET /api/v1/admin/users.
func (h *AdminUserHandler) List(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, admins)
}

// Create handles POST /api/v1/admin/users.
func (h *AdminUserHandler) Create(c *gin.Context) {
	var req model.CreateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	actor := middleware.GetClaims(c).Username
	admin, err := h.admins.Create(c.Request.Context(), actor, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, admin)
}

// Delete handles DELETE /api/v1/admin/users/:id.
func (h *AdminUserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.admins.Delete(c.Request.Context(), claims.UserID, claims.Username, id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
