// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/timeline-sync/models"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")
	ErrDuplicateID     = errors.New("duplicate id")
)

// FieldError describes one failed struct-tag rule.
type FieldError struct {
	Namespace string
	Field     string
	Tag       string
	Param     string
	Value     any
}

func (e FieldError) Error() string {
	return translate(e)
}

// Error collects all failed rules of one value. It wraps
// models.ErrValidation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Error())
	}
	return fmt.Sprintf("%s: %s", models.ErrValidation, strings.Join(messages, "; "))
}

func (e *Error) Unwrap() error {
	return models.ErrValidation
}

// messageTemplates maps validation tags to message templates taking the
// field name.
var messageTemplates = map[string]string{
	"required":  "%s is required",
	"latitude":  "%s must be a valid latitude (-90 to 90)",
	"longitude": "%s must be a valid longitude (-180 to 180)",
	"enum":      "%s has an unknown value",
}

// messageWithParam maps validation tags to templates taking the field name
// and the tag parameter.
var messageWithParam = map[string]string{
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"ltefield": "%s must not exceed %s",
	"oneof":    "%s must be one of: %s",
}

func translate(e FieldError) string {
	if tpl, ok := messageTemplates[e.Tag]; ok {
		return fmt.Sprintf(tpl, e.Namespace)
	}
	if tpl, ok := messageWithParam[e.Tag]; ok {
		return fmt.Sprintf(tpl, e.Namespace, e.Param)
	}
	return fmt.Sprintf("%s failed %s validation", e.Namespace, e.Tag)
}

// fromValidator converts go-playground validation errors into *Error.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", models.ErrValidation, err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Namespace: fe.Namespace(),
			Field:     fe.Field(),
			Tag:       fe.Tag(),
			Param:     fe.Param(),
			Value:     fe.Value(),
		})
	}
	return out
}
