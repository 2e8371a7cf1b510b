// Package logging provides structured logging for the Topband bridge.
//
// It wraps log/slog with configuration-driven level, format, and output
// selection, plus default service/version attributes on every record.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("device registered", "mac", dev.MAC)
package logging
