// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the promhttp handler for collector.
func Handler(collector *Collector) http.Handler {
	return promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})
}
