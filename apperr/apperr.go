package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every error the handlers surface. Store and transport
// errors are wrapped into one of these before they leave a repository
// function.
type Kind int

const (
	Unknown Kind = iota
	Validation
	Authorization
	NotFound
	Gateway
)

type Error struct {
	Kind    Kind
	Message string
	Details string
	Status  int // optional override, used by Gateway errors to pass through the upstream status
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of err, or Unknown for anything unclassified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unknown
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	if ae.Status != 0 {
		return ae.Status
	}
	switch ae.Kind {
	case Validation:
		return http.StatusBadRequest
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Gateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// DetailsOf returns the diagnostic payload attached to err, if any.
func DetailsOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Details
	}
	return ""
}
