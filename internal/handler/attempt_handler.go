package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttemptHandler serves the student-facing exam endpoints.
type AttemptHandler struct {
	attempts *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attempts *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attempts: attempts}
}

// Paper handles GET /api/v1/exams/:exam_id/paper?student_id=...
func (h *AttemptHandler) Paper(c *gin.Context) {
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		return
	}
	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.attempts.FetchPaper(c.Request.Context(), examID, studentID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, paper)
}

// Submit handles POST /api/v1/exams/:exam_id/submit.
func (h *AttemptHandler) Submit(c *gin.Context) {
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		return
	}

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.attempts.Submit(c.Request.Context(), examID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}
