package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Sessions & questions ──────────────────────────────────────────
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrQuestionNotFound ErrCode = "QUESTION_NOT_FOUND"
	ErrUnitNotFound     ErrCode = "UNIT_NOT_FOUND"
	ErrNoMoreQuestions  ErrCode = "NO_MORE_QUESTIONS"
	ErrNoOpenSegment    ErrCode = "NO_OPEN_SEGMENT"
	ErrWrongNotFound    ErrCode = "WRONG_QUESTION_NOT_FOUND"
	ErrDataIntegrity    ErrCode = "DATA_INTEGRITY_ERROR"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is not valid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is not valid."
	case ErrInvalidPayload:
		return "The request payload is not valid."

	// ─── Sessions & questions ──────────────────────────────────────────
	case ErrSessionNotFound:
		return "The session does not exist."
	case ErrQuestionNotFound:
		return "The question does not exist."
	case ErrUnitNotFound:
		return "The unit does not exist."
	case ErrNoMoreQuestions:
		return "There are no more questions in this session."
	case ErrNoOpenSegment:
		return "The session has no running timer."
	case ErrWrongNotFound:
		return "The wrong-answer entry does not exist."
	case ErrDataIntegrity:
		return "The question data is inconsistent. Please contact support."

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
