package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIs(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		err := NewValidationError("coordinate required")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected %v to match ErrValidation", err)
		}
		if errors.Is(err, ErrStoreUnavailable) {
			t.Errorf("expected %v not to match ErrStoreUnavailable", err)
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("insert site: %w", NewValidationError("coordinate required"))
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected wrapped error to match ErrValidation")
		}
	})

	t.Run("message", func(t *testing.T) {
		err := NewValidationError("coordinate required")
		if !errors.Is(err, NewValidationError("coordinate required")) {
			t.Errorf("expected equal messages to match")
		}
		if errors.Is(err, NewValidationError("other")) {
			t.Errorf("expected different messages not to match")
		}
	})
}

func TestUnavailable(t *testing.T) {
	if Unavailable(nil) != nil {
		t.Fatal("Unavailable(nil) should be nil")
	}

	cause := errors.New("dial tcp: connection refused")
	err := Unavailable(cause)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected %v to match ErrStoreUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be reachable")
	}

	validation := NewValidationError("bad input")
	if got := Unavailable(validation); got != error(validation) {
		t.Errorf("expected *Error to be returned unchanged, got %v", got)
	}
}

func TestRetCodeString(t *testing.T) {
	cases := map[RetCode]string{
		RetCSuccess:          "Success",
		RetCValidation:       "Validation",
		RetCStoreUnavailable: "StoreUnavailable",
		RetCode(99):          "Unknown",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("RetCode(%d).String() = %s, want %s", code, got, want)
		}
	}
}
