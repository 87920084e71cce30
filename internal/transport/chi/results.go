package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/layersearch/internal/domain/record"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
	"github.com/kailas-cloud/layersearch/internal/usecase/export"
	"github.com/kailas-cloud/layersearch/internal/usecase/viewer"
)

// ResultsParams are the query parameters of GET /sessions/{session}/results.
type ResultsParams struct {
	Page *int
	Size *int
	Q    *string
}

// ExportParams are the query parameters of GET /sessions/{session}/export.
type ExportParams struct {
	Title *string
}

// RunSearch handles POST /sessions/{session}/search.
func (s *Server) RunSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sel, err := domscope.Parse(req.Scope)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := sess.Search(r.Context(), sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.searchToResponse(res, sess.Viewer()))
}

// GetResults handles GET /sessions/{session}/results.
func (s *Server) GetResults(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var params ResultsParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &params.Page); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter page: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", q, &params.Size); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter size: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "q", q, &params.Q); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter q: "+err.Error())
		return
	}
	if params.Q == nil && q.Has("q") {
		// An empty q clears the filter; form binding may leave it unset.
		empty := ""
		params.Q = &empty
	}
	if params.Size != nil && (*params.Size <= 0 || *params.Size > s.maxPageSize) {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("size must be between 1 and %d", s.maxPageSize))
		return
	}

	v := sess.Viewer()
	if params.Size != nil {
		v.SetPageSize(*params.Size)
	}
	if params.Q != nil && *params.Q != v.Term() {
		v.Filter(*params.Q)
	}
	if params.Page != nil {
		v.GoTo(*params.Page)
	}

	writeJSON(w, http.StatusOK, pageToResponse(v))
}

// NextPage handles POST /sessions/{session}/results/next.
func (s *Server) NextPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Viewer().NextPage()
	writeJSON(w, http.StatusOK, pageToResponse(sess.Viewer()))
}

// PreviousPage handles POST /sessions/{session}/results/prev.
func (s *Server) PreviousPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Viewer().PreviousPage()
	writeJSON(w, http.StatusOK, pageToResponse(sess.Viewer()))
}

// Export handles GET /sessions/{session}/export.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var params ExportParams
	if err := runtime.BindQueryParameter("form", true, false, "title", r.URL.Query(), &params.Title); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter title: "+err.Error())
		return
	}

	now := s.now()
	opts := export.Options{Date: now, Titles: s.catalog.Title}
	if params.Title != nil {
		opts.Title = *params.Title
	}

	// Buffered so an empty aggregate can still produce a JSON error.
	var buf bytes.Buffer
	if err := s.exporter.Write(&buf, sess.Result(), opts); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "layersearch-"+now.Format("20060102-1504")+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) searchToResponse(res *result.SearchResult, v *viewer.Viewer) SearchResponse {
	per := res.PerCollection()
	layers := make([]LayerCount, 0, len(per))
	for _, ref := range res.Collections() {
		layers = append(layers, LayerCount{Ref: ref.String(), Title: s.catalog.Title(ref), Count: per[ref]})
	}

	failures := make([]LayerFailure, 0, len(res.Failures()))
	for _, f := range res.Failures() {
		failures = append(failures, LayerFailure{
			Ref:     f.Ref.String(),
			Title:   s.catalog.Title(f.Ref),
			Message: f.Err.Error(),
		})
	}

	return SearchResponse{
		ID:         res.ID(),
		Generation: res.Generation(),
		Total:      res.Total(),
		Layers:     layers,
		Failures:   failures,
		First:      pageToResponse(v),
	}
}

func pageToResponse(v *viewer.Viewer) PageResponse {
	recs := v.Visible()
	items := make([]RecordResponse, len(recs))
	for i, rec := range recs {
		items[i] = recordToResponse(rec)
	}
	return PageResponse{
		Page:    v.Page(),
		Filter:  v.Term(),
		Visible: v.VisibleCount(),
		Items:   items,
	}
}

func recordToResponse(rec record.Record) RecordResponse {
	attrs := make(map[string]any, len(rec.Attributes()))
	for k, val := range rec.Attributes() {
		if export.IsReserved(k) {
			continue
		}
		attrs[k] = val
	}
	return RecordResponse{Layer: rec.Origin().String(), Attributes: attrs}
}
