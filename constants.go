package main

import "time"

// Session configuration constants
const (
	SessionCookieName = "session_id"
	DefaultWordsFile  = "data/words.json"
)

// Route constants
const (
	RouteHome   = "/"
	RouteState  = "/api/state"
	RouteStart  = "/api/start"
	RouteGuess  = "/api/guess"
	RouteReset  = "/api/reset"
	RouteHealth = "/healthz"
)

// Defaults for environment-driven settings
const (
	DefaultPort            = "8080"
	DefaultSessionTimeout  = 2 * time.Hour
	DefaultCookieMaxAge    = 2 * time.Hour
	DefaultStaticCacheAge  = 5 * time.Minute
	DefaultTickInterval    = time.Second
	DefaultCleanupInterval = 10 * time.Minute
	DefaultRateLimitRPS    = 5
	DefaultRateLimitBurst  = 10
)

// Error message constants
const (
	ErrorBadGuessRequest = "Could not read guess."
	ErrorTooManyRequests = "Too many requests. Please slow down."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string
