// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"kitportal/internal/events"
	"kitportal/platform/config"
	"kitportal/platform/logger"
)

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Metrics is the registry served on /metrics.
	Metrics prometheus.Gatherer
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
