package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
	"github.com/kailas-cloud/layersearch/internal/domain/search/expression"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
	"github.com/kailas-cloud/layersearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/layersearch/internal/usecase/health"
	scopeuc "github.com/kailas-cloud/layersearch/internal/usecase/scope"
	"github.com/kailas-cloud/layersearch/internal/usecase/session"
)

var (
	parksRef = layer.NewRef(layer.KindLayer, 0)
	roadsRef = layer.NewRef(layer.KindLayer, 1)
)

// --- fakes ---

type fakeSearcher struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeSearcher) Search(
	_ context.Context, cs []criteria.Criterion, _ domscope.Selector, generation uint64,
) (*result.SearchResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err := expression.Validate(cs); err != nil {
		return nil, err
	}
	return result.New("search-1", generation, []result.Part{
		{Ref: parksRef, Records: []record.Record{
			record.New(map[string]any{"name": "Oak Park", "area": int64(12)}, nil, ""),
			record.New(map[string]any{"name": "Elm Square", "area": int64(3)}, nil, ""),
			record.New(map[string]any{"name": "Birch Green", "area": int64(7)}, nil, ""),
		}},
		{Ref: roadsRef, Err: errors.New("disk I/O error")},
	}), nil
}

type fakeSampler struct {
	refs  []layer.Ref
	field string
	limit int
}

func (f *fakeSampler) Sample(_ context.Context, refs []layer.Ref, field string, limit int) []string {
	f.refs, f.field, f.limit = refs, field, limit
	return []string{"Elm Square", "Oak Park"}
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(context.Context) healthuc.Report { return f.report }

// --- helpers ---

type testEnv struct {
	handler  http.Handler
	searcher *fakeSearcher
	sampler  *fakeSampler
	health   *fakeHealth
}

func testCatalog(t *testing.T) layer.Catalog {
	t.Helper()
	parks, err := layer.NewLeaf(0, "Parks", "parks")
	if err != nil {
		t.Fatalf("leaf: %v", err)
	}
	roads, err := layer.NewLeaf(1, "Roads", "roads")
	if err != nil {
		t.Fatalf("leaf: %v", err)
	}
	city, err := layer.NewRegion(0, "City", []layer.Entry{parks, roads})
	if err != nil {
		t.Fatalf("region: %v", err)
	}
	cat, err := layer.NewCatalog([]layer.Entry{city})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func newTestEnv(t *testing.T, apiKeys ...string) *testEnv {
	t.Helper()
	env := &testEnv{
		searcher: &fakeSearcher{},
		sampler:  &fakeSampler{},
		health: &fakeHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}},
	}
	logger := zap.NewNop()
	sessions := session.NewManager(env.searcher, logger, session.WithPageSize(2))
	srv := NewServer(
		sessions,
		scopeuc.New(testCatalog(t)),
		env.sampler,
		export.New(),
		env.health,
		logger,
	).WithMaxPageSize(50).WithClock(func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	})
	env.handler = NewRouter(srv, apiKeys, logger)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// newSession creates a session and returns its id.
func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/sessions", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: got %d: %s", rr.Code, rr.Body.String())
	}
	var resp SessionResponse
	decode(t, rr, &resp)
	return resp.ID
}

// addCriterion adds a criterion and sets its field and value.
func (e *testEnv) addCriterion(t *testing.T, sid, field, op, value string) int {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/sessions/"+sid+"/criteria", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("add criterion: got %d: %s", rr.Code, rr.Body.String())
	}
	var resp CriterionIDResponse
	decode(t, rr, &resp)

	base := "/sessions/" + sid + "/criteria/" + strconv.Itoa(resp.ID)
	for path, v := range map[string]string{"field": field, "operator": op, "value": value} {
		body := `{"path":"` + path + `","value":"` + v + `"}`
		if rr := e.do(t, http.MethodPatch, base, body); rr.Code != http.StatusNoContent {
			t.Fatalf("patch %s: got %d: %s", path, rr.Code, rr.Body.String())
		}
	}
	return resp.ID
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}
