package domain

import (
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/dataprotection/internal/errors"
)

// ValidatePurpose checks that a purpose string can name a branch of the
// key-derivation hierarchy.
//
// A purpose must be non-empty and contain at least one non-whitespace
// character. Beyond that, any string is acceptable: purposes are opaque
// derivation context, not identifiers, and two protectors derived with
// different purpose strings are cryptographically independent.
//
// Returns ErrInvalidPurpose wrapping the validation detail. Passing an
// invalid purpose is a programming error in the caller, so the detail is
// safe to surface.
func ValidatePurpose(purpose string) error {
	err := validation.Validate(purpose,
		validation.Required.Error("purpose must not be empty"),
		validation.By(notBlank),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidPurpose, err.Error())
	}
	return nil
}

// notBlank rejects purpose strings consisting solely of whitespace.
func notBlank(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_purpose_type", "purpose must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_purpose_blank", "purpose must not be blank")
	}
	return nil
}
