// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance; it caches struct metadata, so sharing it
// is cheaper than building one per call.
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// enumerated is implemented by the string enums of the models package.
type enumerated interface {
	IsValid() bool
}

// GetValidator returns the shared go-playground validator with the custom
// "enum" rule registered. It is safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(enumerated)
			return ok && e.IsValid()
		})
	})
	return validate
}

// ValidateStruct checks the struct tags of s. Non-empty fields restricts
// the check to those struct fields (dotted paths for nested fields).
func ValidateStruct(ctx context.Context, s any, fields ...string) error {
	v := GetValidator()

	var err error
	if len(fields) == 0 {
		err = v.StructCtx(ctx, s)
	} else {
		err = v.StructPartialCtx(ctx, s, fields...)
	}
	if err != nil {
		return fromValidator(err)
	}
	return nil
}
