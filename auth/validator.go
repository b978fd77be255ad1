package auth

import (
	stderrors "errors"
	"eyesup/errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ValidateLogin checks the shape of a login attempt.
func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if stderrors.As(err, &fieldErrors) {
			fields := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				fields = append(fields, strings.ToLower(fe.Field())+" "+fe.Tag())
			}
			return errors.Validation(strings.Join(fields, ", "))
		}
		return errors.Validation(err.Error())
	}
	return nil
}

// ValidateNewAccount is stricter: a provisioned account needs a complex password.
func ValidateNewAccount(req LoginRequest) error {
	if err := ValidateLogin(req); err != nil {
		return err
	}
	if !isPasswordComplex(req.Password) {
		return errors.Validation("password needs upper, lower, digit and special characters")
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
