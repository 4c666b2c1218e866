// Package ui renders git command lifecycle events as human-readable console
// output while detailed telemetry continues to flow through structured loggers.
package ui
