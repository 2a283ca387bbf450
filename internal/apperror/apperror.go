package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure so the HTTP layer can map it to a status
// code and callers can decide whether a retry makes sense.
type Kind int

const (
	KindValidation Kind = iota // bad input shape, never retried
	KindTooLarge               // declared size exceeds the per-type ceiling
	KindConflict               // same file name uploaded with a different type
	KindRateLimit              // per-user quota exhausted
	KindExtraction             // upstream OCR/parsing failed, terminal for the attempt
	KindContent                // no readable text, terminal
	KindEmbedding              // embedding backend failed after bounded retries
	KindPersistence            // storage write failed
	KindInternal
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error class to the status codes the original
// ingestion contract exposes (400/409/413/429/502/500).
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindContent:
		return fiber.StatusBadRequest
	case KindTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case KindConflict:
		return fiber.StatusConflict
	case KindRateLimit:
		return fiber.StatusTooManyRequests
	case KindExtraction, KindEmbedding:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func TooLarge(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindTooLarge, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func RateLimited(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindRateLimit, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is (or wraps) an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// KindOf extracts the classification, defaulting to internal.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
