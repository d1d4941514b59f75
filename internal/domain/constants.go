package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for config files (rw-------)
	SecureFilePermissions = 0o600
)

// Server constants
const (
	// DefaultAddr is the listen address of `heartrisk serve`
	DefaultAddr = ":8080"
	// DefaultSessionTTL is how long an idle browser session is kept
	DefaultSessionTTL = 30 * time.Minute
	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultReadHeaderTimeout protects the server from slow clients
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultIdleTimeout closes idle keep-alive connections
	DefaultIdleTimeout = 60 * time.Second
	// SessionCookieName carries the browser session id
	SessionCookieName = "heartrisk_session"
	// MaxSessions caps the in-memory session store
	MaxSessions = 10000
)

// Backend constants
const (
	// DefaultBaseURL is where the prediction service listens in development
	DefaultBaseURL = "http://127.0.0.1:8000"
	// DefaultProbeTimeout bounds doctor's reachability check
	DefaultProbeTimeout = 5 * time.Second
	// DefaultCompareConcurrency limits parallel requests of `heartrisk compare`
	DefaultCompareConcurrency = 4
)

// Risk tier thresholds in tenths of a percent
const (
	MediumRiskTenths = 300
	HighRiskTenths   = 600
)
