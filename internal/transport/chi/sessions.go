package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/layersearch/internal/domain"
	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
	"github.com/kailas-cloud/layersearch/internal/usecase/session"
)

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	w.Header().Set("Location", "/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, SessionResponse{ID: sess.ID()})
}

// DeleteSession handles DELETE /sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(gochi.URLParam(r, "session")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCriteria handles GET /sessions/{session}/criteria.
func (s *Server) ListCriteria(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CriteriaResponse{Items: sess.Criteria().List()})
}

// AddCriterion handles POST /sessions/{session}/criteria.
func (s *Server) AddCriterion(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id := sess.Criteria().Add()
	writeJSON(w, http.StatusCreated, CriterionIDResponse{ID: id})
}

// ClearCriteria handles DELETE /sessions/{session}/criteria.
func (s *Server) ClearCriteria(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Criteria().Clear()
	w.WriteHeader(http.StatusNoContent)
}

// UpdateCriterion handles PATCH /sessions/{session}/criteria/{criterion}.
func (s *Server) UpdateCriterion(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, ok := s.criterionID(w, r, sess)
	if !ok {
		return
	}

	var req UpdateCriterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	path := criteria.Path(req.Path)
	switch path {
	case criteria.PathField, criteria.PathOperator, criteria.PathValue, criteria.PathLogical:
	default:
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("unknown path %q", req.Path))
		return
	}

	sess.Criteria().Update(id, path, req.Value)
	w.WriteHeader(http.StatusNoContent)
}

// RemoveCriterion handles DELETE /sessions/{session}/criteria/{criterion}.
func (s *Server) RemoveCriterion(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, ok := s.criterionID(w, r, sess)
	if !ok {
		return
	}
	sess.Criteria().Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(gochi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, err)
		return nil, false
	}
	return sess, true
}

// criterionID parses the criterion path parameter and checks it exists in sess.
func (s *Server) criterionID(w http.ResponseWriter, r *http.Request, sess *session.Session) (int, bool) {
	raw := gochi.URLParam(r, "criterion")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("invalid criterion id %q", raw))
		return 0, false
	}
	for _, c := range sess.Criteria().List() {
		if c.ID == id {
			return id, true
		}
	}
	s.handleDomainError(w, fmt.Errorf("criterion %d: %w", id, domain.ErrNotFound))
	return 0, false
}
