package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// pagination parses ?page= and ?per_page= with sane bounds.
func pagination(c *gin.Context) (page, perPage, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, perPage, (page - 1) * perPage
}

func buildPagination(page, perPage, total int) *response.Pagination {
	totalPages := (total + perPage - 1) / perPage
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// pathUUID parses a UUID path parameter, writing the error response itself
// on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// failFromService maps a service error onto the HTTP surface. Unrecognized
// errors are logged and reported as internal.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrTerminalNotApproved):
		response.Fail(c, http.StatusConflict, response.ErrTerminalNotApproved)
	case errors.Is(err, service.ErrInvalidTransition):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrStudentSeated):
		response.Fail(c, http.StatusConflict, response.ErrStudentSeated)
	case errors.Is(err, service.ErrExamNotScheduled):
		response.Fail(c, http.StatusConflict, response.ErrExamNotScheduled)
	case errors.Is(err, service.ErrExamCompleted):
		response.Fail(c, http.StatusConflict, response.ErrExamCompleted)
	case errors.Is(err, service.ErrExamNotReady):
		response.Fail(c, http.StatusConflict, response.ErrExamNotReady)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrDuplicateRollNumber),
		errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrLastSuperadmin),
		errors.Is(err, service.ErrSelfDelete):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrDuplicateAnswer):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"answers": err.Error()})
	case errors.Is(err, service.ErrBadCorrectOption):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"correct_options": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled service error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
