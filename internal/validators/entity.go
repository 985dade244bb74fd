// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/timeline-sync/internal/clustering"
	"github.com/MKhiriev/timeline-sync/models"
)

// EntityValidator implements the Validator interface for the domain
// models. Both value and pointer forms are accepted.
type EntityValidator struct{}

// NewEntityValidator constructs a new EntityValidator and returns it as the
// Validator interface.
func NewEntityValidator() Validator {
	return &EntityValidator{}
}

// Validate dispatches on the dynamic type of obj.
//
// Supported types:
//   - models.SyncRecord, models.SyncConflict, models.SyncSession
//   - models.MediaFileMetadata and []models.MediaFileMetadata
//   - models.MediaAsset and []models.MediaAsset
//   - models.Coordinate
//   - clustering.Configuration
//
// Optional fields restrict struct-tag checks to the named struct fields;
// for slices they apply to every element.
// Returns ErrUnsupportedType if obj does not match any known model.
func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncRecord, models.SyncConflict, models.SyncSession,
		models.MediaFileMetadata, models.MediaAsset, models.Coordinate:
		return ValidateStruct(ctx, value, fields...)
	case *models.SyncRecord, *models.SyncConflict, *models.SyncSession,
		*models.MediaFileMetadata, *models.MediaAsset, *models.Coordinate:
		return ValidateStruct(ctx, value, fields...)

	case []models.MediaAsset:
		return v.validateAssets(ctx, value, fields...)
	case []models.MediaFileMetadata:
		return v.validateMediaFiles(ctx, value, fields...)

	case clustering.Configuration:
		return v.validateClustering(ctx, value, fields...)
	case *clustering.Configuration:
		return v.validateClustering(ctx, *value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

// validateAssets checks every asset and rejects repeated ids, which would
// break the one-cluster-per-asset partition.
func (v *EntityValidator) validateAssets(ctx context.Context, assets []models.MediaAsset, fields ...string) error {
	seen := make(map[string]int, len(assets))
	for i, a := range assets {
		if err := ValidateStruct(ctx, a, fields...); err != nil {
			return fmt.Errorf("asset %d: %w", i, err)
		}
		if first, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: %w: asset %q at %d and %d", models.ErrValidation, ErrDuplicateID, a.ID, first, i)
		}
		seen[a.ID] = i
	}
	return nil
}

func (v *EntityValidator) validateMediaFiles(ctx context.Context, files []models.MediaFileMetadata, fields ...string) error {
	seen := make(map[string]int, len(files))
	for i, f := range files {
		if err := ValidateStruct(ctx, f, fields...); err != nil {
			return fmt.Errorf("media file %d: %w", i, err)
		}
		if first, dup := seen[f.URL]; dup {
			return fmt.Errorf("%w: %w: url %q at %d and %d", models.ErrValidation, ErrDuplicateID, f.URL, first, i)
		}
		seen[f.URL] = i
	}
	return nil
}

func (v *EntityValidator) validateClustering(ctx context.Context, cfg clustering.Configuration, fields ...string) error {
	if err := ValidateStruct(ctx, cfg, fields...); err != nil {
		return err
	}
	return cfg.Validate()
}
