package apperror

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotFound_MatchesSentinel(t *testing.T) {
	err := NotFound("offer", "abc123")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should match ErrNotFound via errors.Is")
	}
	if errors.Is(err, ErrConflict) {
		t.Error("NotFound() should not match ErrConflict")
	}
}

func TestWrappedError_StillMatches(t *testing.T) {
	// Services wrap apperrors with fmt.Errorf("%w", ...); the sentinel must
	// survive the extra layer.
	inner := InsufficientFunds(100, 40)
	wrapped := fmt.Errorf("responding to offer: %w", inner)

	if !errors.Is(wrapped, ErrInsufficientFunds) {
		t.Error("wrapped error lost its ErrInsufficientFunds category")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed to extract *AppError from wrapped error")
	}
	if appErr.Message == "" {
		t.Error("extracted AppError has empty message")
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("email", "email is required")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should match ErrValidation")
	}
}

func TestPartialSettlement_NamesCompletedSteps(t *testing.T) {
	err := PartialSettlement("offer-1", []string{"offer accepted", "item sold"}, errors.New("boom"))

	if !errors.Is(err, ErrPartialSettlement) {
		t.Error("PartialSettlement() should match ErrPartialSettlement")
	}
	msg := err.Error()
	for _, want := range []string{"offer-1", "offer accepted", "item sold"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}
