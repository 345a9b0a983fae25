package util

import "errors"

// Error kinds. Specific errors wrap a kind so callers can match either.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotReady         = errors.New("not ready")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
)

var (
	ErrAssessmentNotFound = kind(ErrNotFound, "assessment not found")
	ErrQuestionNotFound   = kind(ErrNotFound, "question not found in assessment")
	ErrAttemptNotFound    = kind(ErrNotFound, "attempt not found, start the assessment first")
	ErrUserNotFound       = kind(ErrNotFound, "user not found")
	ErrTutorialNotFound   = kind(ErrNotFound, "tutorial not found")
	ErrAttemptNotReady    = kind(ErrNotReady, "attempt is not completed yet")
	ErrAttemptConflict    = kind(ErrConflict, "attempt already exists for this user and assessment")
	ErrUserExists         = kind(ErrConflict, "username or email already registered")
	ErrTutorialExists     = kind(ErrConflict, "a tutorial with this video already exists")
	ErrUnsupportedVideo   = kind(ErrInvalidInput, "unsupported video source")
	ErrInvalidPayload     = kind(ErrInvalidInput, "malformed submission payload")
	ErrBadCredentials     = kind(ErrUnauthorized, "invalid username or password")
	ErrAccountInactive    = kind(ErrUnauthorized, "account is inactive, contact an administrator")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func kind(k error, msg string) error {
	return &kindError{kind: k, msg: msg}
}
