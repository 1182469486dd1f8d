package config

import "slices"

// DiffResult describes what changed between two configs. Only fields that can be
// safely hot-reloaded are tracked; storage and listen address changes require
// a restart.
type DiffResult struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	AuthChanged bool

	// RestartRequired is set when a change cannot be applied in place
	// (listen address, storage backend, extractor settings).
	RestartRequired bool
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) DiffResult {
	d := DiffResult{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Server.Auth != new.Server.Auth {
		d.AuthChanged = true
	}

	if old.Server.ListenAddr != new.Server.ListenAddr ||
		old.Storage.PostgresDSN != new.Storage.PostgresDSN ||
		old.Extractor != new.Extractor ||
		!slices.Equal(old.Server.CORSAllowedOrigins, new.Server.CORSAllowedOrigins) {
		d.RestartRequired = true
	}

	return d
}
