package sampler

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/layer/field"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
)

// DefaultCap bounds the number of sampled values.
const DefaultCap = 100

// Sampler collects distinct field values across layers for autocomplete.
type Sampler struct {
	fields FieldSource
	values ValueSource
	cap    int
	logger *zap.Logger
}

// New creates a sampler; defaultCap <= 0 uses DefaultCap.
func New(fields FieldSource, values ValueSource, defaultCap int, logger *zap.Logger) *Sampler {
	if defaultCap <= 0 {
		defaultCap = DefaultCap
	}
	return &Sampler{fields: fields, values: values, cap: defaultCap, logger: logger}
}

// Sample visits refs in order and returns up to limit sorted distinct values of
// fieldName. Layers without the field and failing layers are skipped. Once the
// limit is reached no further layer is queried. limit <= 0 uses the default cap.
func (s *Sampler) Sample(ctx context.Context, refs []layer.Ref, fieldName string, limit int) []string {
	if limit <= 0 {
		limit = s.cap
	}

	seen := make(map[string]struct{}, limit)
	for _, ref := range refs {
		if len(seen) >= limit || ctx.Err() != nil {
			break
		}

		fields, err := s.fields.Fields(ctx, ref)
		if err != nil {
			s.skip(ref, fieldName, "fields", err)
			continue
		}
		if _, ok := field.Find(fields, fieldName); !ok {
			continue
		}

		vals, err := s.values.Distinct(ctx, ref, fieldName, limit)
		if err != nil {
			s.skip(ref, fieldName, "distinct", err)
			continue
		}
		for _, v := range vals {
			if len(seen) >= limit {
				break
			}
			if v == nil {
				continue
			}
			seen[record.FormatValue(v)] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func (s *Sampler) skip(ref layer.Ref, fieldName, stage string, err error) {
	s.logger.Warn("Skipping layer while sampling values",
		zap.String("ref", ref.String()),
		zap.String("field", fieldName),
		zap.String("stage", stage),
		zap.Error(err),
	)
}
