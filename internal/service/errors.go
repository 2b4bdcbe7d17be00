package service

import (
	"errors"
	"fmt"

	"go-campus-assets/pkg/validator"
)

// ErrValidation marks caller-correctable input failures, detected before any
// store access. Handlers map it to 400; everything else is a store fault.
var ErrValidation = errors.New("validation failed")

func validationError(errs []*validator.ErrorResponse) error {
	return fmt.Errorf("%w: %s", ErrValidation, errs[0].String())
}
