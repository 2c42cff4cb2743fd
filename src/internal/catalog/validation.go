package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/homedash/homedash/src/internal/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report field names the way clients send them
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks an entry before it is stored.
func Validate(e Entry) error {
	if strings.TrimSpace(e.Title) == "" {
		return apperrors.NewValidationError("title: field is required", nil)
	}
	if strings.TrimSpace(e.URL) == "" {
		return apperrors.NewValidationError("url: field is required", nil)
	}

	if err := validate.Struct(e); err != nil {
		var validatorErrs validator.ValidationErrors
		if errors.As(err, &validatorErrs) {
			msgs := make([]string, 0, len(validatorErrs))
			for _, fe := range validatorErrs {
				msgs = append(msgs, fieldPath(fe)+": "+validationMessage(fe))
			}
			return apperrors.NewValidationError(strings.Join(msgs, "; "), nil)
		}
		return apperrors.NewValidationError("invalid entry", err)
	}

	if e.Kind == KindService {
		if e.ProxyTarget == nil {
			return apperrors.NewValidationError("proxyConfig: required for services", nil)
		}
		if strings.TrimSpace(e.ProxyTarget.Target) == "" {
			return apperrors.NewValidationError("proxyConfig.target: field is required", nil)
		}
	}
	return nil
}

// fieldPath drops the struct name from the validator namespace ("Entry.proxyConfig.target").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}
