package http

import (
	"github.com/google/uuid"

	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	"github.com/AlibekovAA/tada/internal/common/validation"
)

func ValidateStruct(v any) error {
	return validation.Struct(v)
}

func ValidateUUID(s string) error {
	if s == "" {
		return commonerrors.ErrEmptyUUID
	}
	if _, err := uuid.Parse(s); err != nil {
		return commonerrors.ErrInvalidUUID.WithCause(err)
	}
	return nil
}
