// Package validate runs struct-tag validation on request bodies before any
// database call is made.
package validate

import (
	"errors"
	"strings"

	"gudang-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates body and turns any failure into a validation error carrying
// msg. The failing fields are kept on the wrapped error for the log.
func Struct(body any, msg string) error {
	err := v.Struct(body)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &apperr.Error{Kind: apperr.KindValidation, Message: msg, Err: err}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	return &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: msg,
		Err:     errors.New(strings.Join(fields, ",")),
	}
}

// Var validates a single value against tag.
func Var(field any, tag, msg string) error {
	if err := v.Var(field, tag); err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: msg, Err: err}
	}
	return nil
}
