package jobsearch

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured         = errors.New("job search is not configured: app id and API key are required")
	ErrInvalidEmploymentType = errors.New("employment type must be one of: full_time, part_time, contract, permanent")
	ErrInvalidPage           = errors.New("page and results per page must be positive")
)

// ConnectorError is a non-2xx answer from the upstream job board.
type ConnectorError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string { return e.Message }

func (e *NetworkError) Unwrap() error { return e.Err }
