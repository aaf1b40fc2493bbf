package request

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	passwordLetterExp = regexp.MustCompile(`[A-Za-z]`)
	passwordDigitExp  = regexp.MustCompile(`\d`)

	errInvalidPassword = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
)

func validPassword(password string) bool {
	return len(password) >= 8 &&
		passwordLetterExp.MatchString(password) &&
		passwordDigitExp.MatchString(password)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	RafflerName string `json:"raffler_name,omitempty"`
	Role        string `json:"role" validate:"required"`
	EntityIDs   []uint `json:"entity_ids,omitempty"`
}

func (req *CreateUserRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Length(3, 30), is.Alphanumeric),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.RafflerName, validation.Length(0, 50)),
		validation.Field(&req.Role, validation.Required, validation.In("superuser", "club_owner", "event_manager", "staff")),
	)
	if err != nil {
		return err
	}

	if !validPassword(req.Password) {
		return errInvalidPassword
	}

	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (req *ChangePasswordRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required),
	)
	if err != nil {
		return err
	}

	if !validPassword(req.NewPassword) {
		return errInvalidPassword
	}

	return nil
}
