package service

import "errors"

// Sentinel errors returned by the services. Handlers map these onto HTTP
// error codes with errors.Is.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrTerminalNotApproved = errors.New("terminal is not approved")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrStudentSeated       = errors.New("student already seated on another terminal")
	ErrExamNotScheduled    = errors.New("exam is not in a startable state")
	ErrExamCompleted       = errors.New("exam is already completed")
	ErrExamNotReady        = errors.New("exam has no questions yet")
	ErrAlreadySubmitted    = errors.New("exam already submitted by this student")
	ErrDuplicateAnswer     = errors.New("multiple answers for the same question")
	ErrDuplicateRollNumber = errors.New("roll number already in use")
	ErrDuplicateUsername   = errors.New("username already in use")
	ErrLastSuperadmin      = errors.New("cannot remove the last superadmin")
	ErrSelfDelete          = errors.New("cannot delete own account")
)
