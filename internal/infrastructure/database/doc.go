// Package database provides SQLite connection management for the bridge.
//
// The bridge persists only the cloud token pair (see internal/cloud), so
// this package is a thin wrapper around database/sql with WAL mode, busy
// timeout, restrictive file permissions, and a health check.
package database
