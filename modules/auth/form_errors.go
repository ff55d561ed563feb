package auth

import (
	"errors"
	"log/slog"

	"github.com/storekit/authflow/pkg/logger"
	"github.com/storekit/authflow/pkg/validator"
)

// User-facing messages. Validation and flow errors surface these verbatim;
// infrastructure failures only ever surface the opaque global ones.
const (
	msgEnterName       = "Enter name."
	msgEnterEmail      = "Enter email."
	msgEnterPassword   = "Enter password."
	msgEmailTaken      = "Account with this email already exists."
	msgNoSuchUser      = "User with this email does not exist."
	msgWrongPassword   = "Incorrect password."
	msgCannotCreate    = "Unable to create account."
	msgCannotAuthorize = "Unable to complete sign-in."
)

// FormErrors maps each form field to its messages. One struct field per
// form input keeps the handling exhaustive at compile time instead of
// relying on string keys.
type FormErrors struct {
	Name     []string `json:"nameError,omitempty"`
	Email    []string `json:"emailError,omitempty"`
	Password []string `json:"passwordError,omitempty"`
	Global   []string `json:"globalError,omitempty"`
}

func (fe *FormErrors) AddName(msg string)     { fe.Name = append(fe.Name, msg) }
func (fe *FormErrors) AddEmail(msg string)    { fe.Email = append(fe.Email, msg) }
func (fe *FormErrors) AddPassword(msg string) { fe.Password = append(fe.Password, msg) }
func (fe *FormErrors) AddGlobal(msg string)   { fe.Global = append(fe.Global, msg) }

// HasErrors reports whether any field collected a message.
func (fe *FormErrors) HasErrors() bool {
	return len(fe.Name) > 0 || len(fe.Email) > 0 || len(fe.Password) > 0 || len(fe.Global) > 0
}

// formErrorsFor translates a flow error into the per-field messages the
// client renders. Only the first violation per field is surfaced.
// Unrecognized errors are infrastructure failures: logged with full detail,
// surfaced only as the opaque global message.
func formErrorsFor(err error, globalMsg string, log *slog.Logger) *FormErrors {
	fe := &FormErrors{}

	if ve := validator.Extract(err); ve != nil {
		if msg := ve.First("name"); msg != "" {
			fe.AddName(msg)
		}
		if msg := ve.First("email"); msg != "" {
			fe.AddEmail(msg)
		}
		if msg := ve.First("password"); msg != "" {
			fe.AddPassword(msg)
		}
		return fe
	}

	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		fe.AddEmail(msgEmailTaken)
	case errors.Is(err, ErrUserNotFound):
		fe.AddEmail(msgNoSuchUser)
	case errors.Is(err, ErrIncorrectPassword):
		fe.AddPassword(msgWrongPassword)
	default:
		log.Error("authentication flow failed", logger.Error(err), logger.Component("auth"))
		fe.AddGlobal(globalMsg)
	}
	return fe
}
