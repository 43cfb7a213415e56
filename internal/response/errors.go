package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidFilter  ErrCode = "INVALID_FILTER"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"
	ErrUnknownTable     ErrCode = "UNKNOWN_TABLE"

	// ─── Attendance ────────────────────────────────────────────────────
	ErrClassNotFound   ErrCode = "CLASS_NOT_FOUND"
	ErrStudentNotFound ErrCode = "STUDENT_NOT_FOUND"
	ErrNotEnrolled     ErrCode = "STUDENT_NOT_IN_CLASS"

	// ─── Files ─────────────────────────────────────────────────────────
	ErrFileRequired     ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile  ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrUnsupportedFmt   ErrCode = "UNSUPPORTED_EXPORT_FORMAT"
	ErrFileTooLarge     ErrCode = "FILE_TOO_LARGE"
	ErrImportFailed     ErrCode = "IMPORT_FAILED"
	ErrRestoreFailed    ErrCode = "RESTORE_FAILED"
	ErrNothingToExport  ErrCode = "NOTHING_TO_EXPORT"
	ErrBackupNotEnabled ErrCode = "BACKUP_UPLOAD_DISABLED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

var messages = map[ErrCode]string{
	ErrInvalidCredentials: "Invalid credentials.",
	ErrTokenRequired:      "Authentication token is required.",
	ErrTokenInvalid:       "Authentication token is invalid.",
	ErrTokenExpired:       "Authentication token has expired.",

	ErrForbidden:         "You do not have permission to access this resource.",
	ErrStudentAccessOnly: "This resource is restricted to students.",
	ErrAdminAccessOnly:   "This resource is restricted to administrators.",

	ErrValidation:     "Validation failed. Please check your input.",
	ErrInvalidID:      "Invalid ID format.",
	ErrInvalidPayload: "Invalid request payload.",
	ErrInvalidFilter:  "Invalid report filter.",

	ErrNotFound:         "Resource not found.",
	ErrConflict:         "Resource already exists.",
	ErrDependencyExists: "The record is still referenced by other data.",
	ErrUnknownTable:     "Unknown table.",

	ErrClassNotFound:   "Class not found.",
	ErrStudentNotFound: "Student not found.",
	ErrNotEnrolled:     "Student does not belong to this class.",

	ErrFileRequired:     "A file upload is required.",
	ErrUnsupportedFile:  "Unsupported file type.",
	ErrUnsupportedFmt:   "Unsupported export format.",
	ErrFileTooLarge:     "File size exceeds the limit.",
	ErrImportFailed:     "The file could not be imported.",
	ErrRestoreFailed:    "The backup could not be restored.",
	ErrNothingToExport:  "There is no data to export.",
	ErrBackupNotEnabled: "Backup upload is not configured.",

	ErrRateLimitExceeded: "Too many requests. Please try again later.",

	ErrInternal: "Internal server error.",
}

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "An unexpected error occurred."
}
