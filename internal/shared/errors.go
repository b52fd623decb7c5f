package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed           = fmt.Errorf("authentication failed")
	ErrNotAuthenticated     = fmt.Errorf("not authenticated")
	ErrNoSavedSession       = fmt.Errorf("no saved session")
	ErrChallengeOutstanding = fmt.Errorf("challenge outstanding")
	ErrRefreshFailed        = fmt.Errorf("session refresh failed")

	// Cache errors
	ErrCacheUnavailable = fmt.Errorf("session cache unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
