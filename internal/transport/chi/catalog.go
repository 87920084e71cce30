package chi

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
)

// ValuesParams are the query parameters of GET /values.
type ValuesParams struct {
	Field string
	Scope *string
	Cap   *int
}

// GetValues handles GET /values.
func (s *Server) GetValues(w http.ResponseWriter, r *http.Request) {
	var params ValuesParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "field", q, &params.Field); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter field: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "scope", q, &params.Scope); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter scope: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "cap", q, &params.Cap); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter cap: "+err.Error())
		return
	}
	if params.Field == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "field is required")
		return
	}

	raw := ""
	if params.Scope != nil {
		raw = *params.Scope
	}
	sel, err := domscope.Parse(raw)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	refs, err := s.catalog.Resolve(r.Context(), sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit := 0
	if params.Cap != nil {
		if *params.Cap <= 0 {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, fmt.Sprintf("cap must be positive, got %d", *params.Cap))
			return
		}
		limit = *params.Cap
	}

	values := s.sampler.Sample(r.Context(), refs, params.Field, limit)
	writeJSON(w, http.StatusOK, ValuesResponse{Field: params.Field, Values: values})
}

// ListLayers handles GET /layers.
func (s *Server) ListLayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LayersResponse{Items: layerNodes(s.catalog.Catalog().Entries())})
}

func layerNodes(entries []layer.Entry) []LayerNode {
	nodes := make([]LayerNode, len(entries))
	for i, e := range entries {
		nodes[i] = LayerNode{
			Ref:   e.Ref().String(),
			Title: e.Title(),
			Table: e.Table(),
		}
		if e.IsGroup() {
			nodes[i].Children = layerNodes(e.Children())
		}
	}
	return nodes
}
