package sampler

import (
	"context"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/layer/field"
)

// FieldSource describes layer fields.
type FieldSource interface {
	Fields(ctx context.Context, ref layer.Ref) ([]field.Descriptor, error)
}

// ValueSource returns distinct values of a field, at most limit of them.
type ValueSource interface {
	Distinct(ctx context.Context, ref layer.Ref, fieldName string, limit int) ([]any, error)
}
