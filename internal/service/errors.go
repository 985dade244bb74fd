// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrNoConfig is returned by NewServices when called without a
	// configuration.
	ErrNoConfig = errors.New("no configuration provided")
)
