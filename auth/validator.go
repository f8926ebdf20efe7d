package auth

import (
	"unicode"

	"center-hub/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=12,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ContactRequest is a visitor inquiry about a center. Visitors are not
// authenticated, so the payload carries its own sender coordinates. The
// recipient admin is resolved server-side from the center record; a client
// must never be able to aim a user-scoped event at an arbitrary account.
type ContactRequest struct {
	CenterID    string `json:"center_id" validate:"required"`
	SenderName  string `json:"sender_name" validate:"required,min=2,max=100"`
	SenderEmail string `json:"sender_email" validate:"required,email"`
	Subject     string `json:"subject" validate:"required,max=200"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func ValidateLogin(req LoginRequest) error {
	return validate.Struct(req)
}

func ValidateContact(req ContactRequest) error {
	return validate.Struct(req)
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
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
