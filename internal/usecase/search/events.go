package search

import (
	"time"

	"github.com/asaidimu/go-events"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
)

// EventCollectionFailed is published once per failed layer query.
const EventCollectionFailed = "search.collection_failed"

// CollectionFailed describes an isolated layer failure.
type CollectionFailed struct {
	SearchID   string
	Generation uint64
	Ref        layer.Ref
	Err        error
	Duration   time.Duration
}

// Bus carries search events.
type Bus = events.TypedEventBus[CollectionFailed]

// NewBus creates an event bus for search events.
func NewBus() (*Bus, error) {
	return events.NewTypedEventBus[CollectionFailed](events.DefaultConfig())
}
