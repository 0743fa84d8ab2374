package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrSuperadminOnly  ErrCode = "SUPERADMIN_ONLY"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Terminal-specific ─────────────────────────────────────────────
	ErrTerminalNotApproved ErrCode = "TERMINAL_NOT_APPROVED"
	ErrStudentSeated       ErrCode = "STUDENT_ALREADY_SEATED"

	// ─── Exam-specific ─────────────────────────────────────────────────
	ErrExamNotScheduled ErrCode = "EXAM_NOT_SCHEDULED"
	ErrExamCompleted    ErrCode = "EXAM_COMPLETED"
	ErrExamNotReady     ErrCode = "EXAM_NOT_READY"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrSuperadminOnly:
		return "This action is restricted to superadmins."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Terminal-specific ─────────────────────────────────────────────
	case ErrTerminalNotApproved:
		return "This terminal has not been approved by an administrator."
	case ErrStudentSeated:
		return "This student is already assigned to another terminal."

	// ─── Exam-specific ─────────────────────────────────────────────────
	case ErrExamNotScheduled:
		return "This exam is not in the Scheduled state."
	case ErrExamCompleted:
		return "This exam has already been completed."
	case ErrExamNotReady:
		return "The exam is not ready yet. Please wait for the administrator to start it."
	case ErrAlreadySubmitted:
		return "A submission for this exam has already been recorded."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
