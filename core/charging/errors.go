package charging

import "errors"

var (
	// ErrShutdown is returned for submissions made after shutdown began.
	ErrShutdown = errors.New("charging: scheduler is shutting down")
	// ErrNotInitialized is returned for submissions made before Initialize.
	ErrNotInitialized = errors.New("charging: scheduler not initialized")
	// ErrInvalidStationCount is returned by Initialize for a non-positive pool size.
	ErrInvalidStationCount = errors.New("charging: station count must be positive")
)
