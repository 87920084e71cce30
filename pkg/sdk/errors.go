package layersearch

import (
	"errors"

	"github.com/kailas-cloud/layersearch/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation      = domain.ErrValidation
	ErrInvalidScope    = domain.ErrInvalidScope
	ErrEmptyExport     = domain.ErrEmptyExport
	ErrCollectionQuery = domain.ErrCollectionQuery
)

var errUnhealthy = errors.New("layer database unreachable")
