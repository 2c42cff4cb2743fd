package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.General == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general",
			Message:   "configuration must contain 'general' section",
		})
		return validationErrors
	}

	sections := []struct {
		name  string
		value interface{}
	}{
		{"general", c.General},
		{"import", c.Import},
		{"dns", c.DNS},
		{"metrics", c.Metrics},
	}
	for _, s := range sections {
		if isNilSection(s.value) {
			continue
		}
		if err := validate.Struct(s.value); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, s.name, s.name)...)
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func isNilSection(v interface{}) bool {
	switch s := v.(type) {
	case *GeneralConfig:
		return s == nil
	case *ImportConfig:
		return s == nil
	case *DNSConfig:
		return s == nil
	case *MetricsConfig:
		return s == nil
	}
	return v == nil
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because we registered TagNameFunc
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
