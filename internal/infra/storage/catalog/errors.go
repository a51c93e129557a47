package catalog

import "errors"

var (
	// ErrArtistNotFound возвращается, когда мастер не найден
	ErrArtistNotFound = errors.New("catalog.repository: artist not found")

	// ErrServiceNotOffered возвращается, когда мастер не оказывает услугу
	ErrServiceNotOffered = errors.New("catalog.repository: service not offered by artist")

	ErrBuildQuery = errors.New("catalog.repository: failed to build query")
	ErrExecQuery  = errors.New("catalog.repository: failed to execute query")
	ErrScanRow    = errors.New("catalog.repository: failed to scan row")
)
