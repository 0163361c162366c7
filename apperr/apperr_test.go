package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(Validation, "bad input"), http.StatusBadRequest},
		{New(Authorization, "not yours"), http.StatusForbidden},
		{New(NotFound, "gone"), http.StatusNotFound},
		{New(Gateway, "upstream sad"), http.StatusBadGateway},
		{New(Unknown, "??"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestStatusOverride(t *testing.T) {
	err := New(Gateway, "upstream sad")
	err.Status = http.StatusUnprocessableEntity
	if got := HTTPStatus(err); got != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want the override", got)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := New(NotFound, "recipe missing")
	outer := fmt.Errorf("loading page: %w", inner)
	if got := KindOf(outer); got != NotFound {
		t.Errorf("KindOf = %v, want NotFound", got)
	}
	if got := HTTPStatus(outer); got != http.StatusNotFound {
		t.Errorf("HTTPStatus = %d, want 404", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Gateway, "image store unreachable", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if err.Error() != "image store unreachable: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestDetailsOf(t *testing.T) {
	err := New(Gateway, "upstream sad")
	err.Details = `{"message":"boom"}`
	if got := DetailsOf(err); got != `{"message":"boom"}` {
		t.Errorf("DetailsOf = %q", got)
	}
	if got := DetailsOf(errors.New("plain")); got != "" {
		t.Errorf("DetailsOf(plain) = %q, want empty", got)
	}
}
