package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/openlobby/openlobby-server/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("first must be positive")

	if err.Error() != "first must be positive" {
		t.Errorf("expected 'first must be positive', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid cursor", inner)

	if err.Error() != "invalid cursor: parse failed" {
		t.Errorf("expected 'invalid cursor: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("malformed cursor")

	wrapped := fmt.Errorf("failed to paginate: %w", original)
	doubleWrapped := fmt.Errorf("resolver error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "malformed cursor" {
		t.Errorf("expected 'malformed cursor', got %q", ve.Message)
	}
}

func TestConsistencyError(t *testing.T) {
	err := apperr.NewConsistency("author 42 referenced by report but not stored")

	wrapped := fmt.Errorf("search reports: %w", err)

	var ce *apperr.ConsistencyError
	if !errors.As(wrapped, &ce) {
		t.Fatal("errors.As should find ConsistencyError through wrapping")
	}

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("ConsistencyError must not match ValidationError")
	}
}
