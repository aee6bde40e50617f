package financialsync

import "errors"

var (
	ErrJobNotFound = errors.New("financialsync.repository: job not found")

	ErrBuildQuery = errors.New("financialsync.repository: failed to build query")
	ErrExecQuery  = errors.New("financialsync.repository: failed to execute query")
	ErrScanRow    = errors.New("financialsync.repository: failed to scan row")
)
