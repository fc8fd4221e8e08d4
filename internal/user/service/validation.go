package service

import (
	"fmt"

	"github.com/AlibekovAA/tada/internal/common/constants"
	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
	"github.com/AlibekovAA/tada/internal/common/validation"
)

var (
	usernameRule = fmt.Sprintf("required,min=%d,max=%d,username", constants.UsernameMinLength, constants.UsernameMaxLength)
	passwordRule = fmt.Sprintf("required,min=%d", constants.PasswordMinLength)
)

func validateUsername(username string) error {
	return validation.Var(username, "username", usernameRule)
}

// validatePassword bounds the password in bytes since bcrypt only reads the
// first 72.
func validatePassword(field, password string) error {
	if err := validation.Var(password, field, passwordRule); err != nil {
		return err
	}
	if len(password) > constants.PasswordMaxLength {
		return commonerrors.ErrValidation.WithMessage(
			fmt.Sprintf("%s must be at most %d bytes", field, constants.PasswordMaxLength),
		)
	}
	return nil
}

func validateCredentials(username, password string) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	return validatePassword("password", password)
}
