package salon

import "errors"

var (
	ErrSalonNotFound   = errors.New("salon.repository: salon not found")
	ErrServiceNotFound = errors.New("salon.repository: service not found")

	ErrBuildQuery = errors.New("salon.repository: failed to build query")
	ErrScanRow    = errors.New("salon.repository: failed to scan row")
)
