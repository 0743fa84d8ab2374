package model

import (
	"time"

	"github.com/google/uuid"
)

// TerminalStatus enumerates the registration states of a terminal.
type TerminalStatus string

const (
	TerminalStatusPending  TerminalStatus = "PENDING"
	TerminalStatusApproved TerminalStatus = "APPROVED"
	TerminalStatusRejected TerminalStatus = "REJECTED"
)

// LiveStatus is the human-facing label describing what a terminal is doing.
// ONLINE, READY, ATTEMPTING and FINISHED may be self-reported by the terminal
// client; WAITING is only ever derived server-side.
type LiveStatus string

const (
	LiveStatusOnline     LiveStatus = "ONLINE"
	LiveStatusReady      LiveStatus = "READY"
	LiveStatusWaiting    LiveStatus = "WAITING"
	LiveStatusAttempting LiveStatus = "ATTEMPTING"
	LiveStatusFinished   LiveStatus = "FINISHED"
)

// Terminal represents a registered client machine requesting to host exams.
type Terminal struct {
	ID                uuid.UUID      `json:"id"`
	Name              string         `json:"name"`
	Identifier        string         `json:"identifier"`
	IPAddress         string         `json:"ip_address,omitempty"`
	Status            TerminalStatus `json:"status"`
	AssignedStudentID *uuid.UUID     `json:"assigned_student_id,omitempty"`
	AssignedExamID    *uuid.UUID     `json:"assigned_exam_id,omitempty"`
	LiveStatus        LiveStatus     `json:"live_status"`
	LastSeen          time.Time      `json:"last_seen"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// RegisterTerminalRequest is the payload for registering a new terminal.
type RegisterTerminalRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
}

// HeartbeatRequest is the payload a terminal sends on every poll.
// LiveStatus is optional; an empty value only refreshes last_seen.
type HeartbeatRequest struct {
	LiveStatus LiveStatus `json:"live_status" binding:"omitempty,oneof=ONLINE READY ATTEMPTING FINISHED"`
}

// AssignStudentRequest is the admin payload binding a student to a terminal.
// A null student_id clears the assignment.
type AssignStudentRequest struct {
	StudentID *uuid.UUID `json:"student_id"`
}

// TerminalStatusDetails is returned to a polling terminal.
type TerminalStatusDetails struct {
	Terminal         Terminal     `json:"terminal"`
	StudentName      string       `json:"student_name,omitempty"`
	StudentRoll      string       `json:"student_roll_number,omitempty"`
	Exam             *ExamSummary `json:"exam,omitempty"`
	ExamAlreadyTaken bool         `json:"exam_already_taken"`
	LiveStatus       LiveStatus   `json:"live_status"`
}

// LiveBoardRow is one row of the admin live-status dashboard.
type LiveBoardRow struct {
	TerminalID   uuid.UUID   `json:"terminal_id"`
	TerminalName string      `json:"terminal_name"`
	StudentName  string      `json:"student_name"`
	StudentRoll  string      `json:"student_roll_number"`
	ExamTitle    string      `json:"exam_title,omitempty"`
	ExamStatus   *ExamStatus `json:"exam_status,omitempty"`
	LiveStatus   LiveStatus  `json:"live_status"`
	LastSeen     time.Time   `json:"last_seen"`
}
