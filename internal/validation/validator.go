// Package validation checks DTO structure with go-playground/validator and
// reports violations as domain.ValidationError.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dashboard-api/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator validates DTOs tagged with `validate:"..."`.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON name so clients can map errors back to the payload
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate returns nil or a domain.ValidationError listing every violated field.
func (v *Validator) Validate(ctx context.Context, dto any) error {
	if dto == nil {
		return domain.ValidationError{Msg: "request body is required"}
	}
	rv := reflect.ValueOf(dto)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return domain.ValidationError{Msg: "request body is required"}
	}

	err := v.v.StructCtx(ctx, dto)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{
				Field: fe.Field(),
				Rule:  fe.Tag(),
				Msg:   message(fe),
			})
		}
		return domain.ValidationError{Fields: fields, Err: err}
	}

	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return domain.ValidationError{Msg: "request body must be an object", Err: err}
	}
	return err
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "e164":
		return "must be an E.164 phone number"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}
