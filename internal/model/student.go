package model

import (
	"time"

	"github.com/google/uuid"
)

// Student represents an examinee. AssignedExamID is the authoritative exam
// assignment; the copy on a seated terminal is a cache synced on every change.
type Student struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	RollNumber     string     `json:"roll_number"`
	ClassBatch     string     `json:"class_batch"`
	AssignedExamID *uuid.UUID `json:"assigned_exam_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateStudentRequest is the payload for creating a new student.
type CreateStudentRequest struct {
	Name           string     `json:"name" binding:"required,min=2,max=100"`
	RollNumber     string     `json:"roll_number" binding:"required,min=1,max=50"`
	ClassBatch     string     `json:"class_batch" binding:"required,min=1,max=50"`
	AssignedExamID *uuid.UUID `json:"assigned_exam_id" binding:"omitempty"`
}

// UpdateStudentRequest is the payload for updating an existing student.
type UpdateStudentRequest struct {
	Name           string     `json:"name" binding:"required,min=2,max=100"`
	RollNumber     string     `json:"roll_number" binding:"required,min=1,max=50"`
	ClassBatch     string     `json:"class_batch" binding:"required,min=1,max=50"`
	AssignedExamID *uuid.UUID `json:"assigned_exam_id" binding:"omitempty"`
}
