package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dear23/gridlayout/pkg/buildinfo"
	"github.com/dear23/gridlayout/pkg/cache"
	"github.com/dear23/gridlayout/pkg/engine"
	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/observability"
	"github.com/dear23/gridlayout/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Options{
		Engine: engine.Options{
			Grid:           grid.GridConfig{Cols: 4, RowHeight: 50, Margin: [2]float64{10, 10}},
			ContainerWidth: 430,
		},
		Runner: pipeline.NewRunner(cache.NewMemoryCache(), nil, nil),
	})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func responseLayout(t *testing.T, rec *httptest.ResponseRecorder) grid.Layout {
	t.Helper()
	resp := decodeBody[layoutResponse](t, rec)
	l, err := layoutio.UnmarshalLayout(resp.Layout)
	require.NoError(t, err)
	return l
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[healthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, buildinfo.Version, resp.Build.Version)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestValidate(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"Valid", `{"layout":[{"i":"a","x":0,"y":0,"w":1,"h":1}]}`, http.StatusOK, ""},
		{"Duplicate", `{"layout":[{"i":"a","x":0,"y":0,"w":1,"h":1},{"i":"a","x":1,"y":0,"w":1,"h":1}]}`, http.StatusBadRequest, "DUPLICATE_ID"},
		{"MissingField", `{"layout":[{"i":"a","x":0,"y":0,"w":1}]}`, http.StatusBadRequest, "INVALID_LAYOUT"},
		{"NoLayout", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"BadJSON", `{"layout":`, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/validate", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				resp := decodeBody[errorResponse](t, rec)
				assert.Equal(t, tt.code, resp.Code)
				assert.NotEmpty(t, resp.Error)
			}
		})
	}
}

func TestCompact(t *testing.T) {
	s := newTestServer(t)
	body := `{"layout":[{"i":"a","x":0,"y":3,"w":1,"h":1,"color":"red"}],"cols":4}`

	rec := do(t, s, http.MethodPost, "/v1/compact", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[layoutResponse](t, rec)
	assert.False(t, resp.Cached)
	assert.Equal(t, 1, resp.Rows)

	l := responseLayout(t, rec)
	require.Len(t, l, 1)
	assert.Equal(t, 0, l[0].Y)
	assert.Equal(t, "red", l[0].Extra["color"])

	rec = do(t, s, http.MethodPost, "/v1/compact", body)
	assert.True(t, decodeBody[layoutResponse](t, rec).Cached)

	rec = do(t, s, http.MethodPost, "/v1/compact", `{"layout":[],"compactor":"diagonal"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMove(t *testing.T) {
	s := newTestServer(t)
	layout := `[{"i":"a","x":0,"y":0,"w":2,"h":1},{"i":"b","x":0,"y":1,"w":2,"h":1},{"i":"wall","x":3,"y":0,"w":1,"h":1,"static":true}]`

	rec := do(t, s, http.MethodPost, "/v1/move", `{"layout":`+layout+`,"id":"b","x":0,"y":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	l := responseLayout(t, rec)
	assert.Equal(t, 1, l.Find("a").Y)
	assert.Equal(t, 0, l.Find("b").Y)

	rec = do(t, s, http.MethodPost, "/v1/move", `{"layout":`+layout+`,"id":"nope","x":0,"y":0}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/move", `{"layout":`+layout+`,"id":"wall","x":0,"y":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeBody[errorResponse](t, rec).Code)

	// A request can ask for overlap instead of pushing.
	rec = do(t, s, http.MethodPost, "/v1/move", `{"layout":`+layout+`,"id":"b","x":0,"y":0,"compactor":"none","allow_overlap":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	l = responseLayout(t, rec)
	assert.Equal(t, 0, l.Find("a").Y)
	assert.Equal(t, 0, l.Find("b").Y)

	rec = do(t, s, http.MethodPost, "/v1/move", `{"layout":`+layout+`,"id":"b","x":0,"y":0,"compactor":"wrap","allow_overlap":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CONFIG", decodeBody[errorResponse](t, rec).Code)
}

func TestResize(t *testing.T) {
	s := newTestServer(t)
	layout := `[{"i":"a","x":0,"y":0,"w":1,"h":1},{"i":"b","x":0,"y":1,"w":1,"h":1}]`

	rec := do(t, s, http.MethodPost, "/v1/resize", `{"layout":`+layout+`,"id":"a","w":1,"h":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	l := responseLayout(t, rec)
	assert.Equal(t, 2, l.Find("a").H)
	assert.Equal(t, 2, l.Find("b").Y)

	rec = do(t, s, http.MethodPost, "/v1/resize", `{"layout":`+layout+`,"id":"a","w":1,"h":2,"handle":"up"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBreakpoint(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		width  string
		status int
		bp     string
		cols   int
	}{
		{"1300", http.StatusOK, "lg", 12},
		{"800", http.StatusOK, "sm", 6},
		{"0", http.StatusOK, "xxs", 2},
		{"wide", http.StatusBadRequest, "", 0},
		{"-5", http.StatusBadRequest, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.width, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/v1/breakpoint?width="+tt.width, "")
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				resp := decodeBody[breakpointResponse](t, rec)
				assert.Equal(t, tt.bp, resp.Breakpoint)
				assert.Equal(t, tt.cols, resp.Cols)
			}
		})
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t)
	body := `{"layout":[{"i":"a","x":0,"y":0,"w":2,"h":1}],"cols":4,"container_width":430,"format":"%s"}`

	rec := do(t, s, http.MethodPost, "/v1/render", strings.Replace(body, "%s", "svg", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))

	rec = do(t, s, http.MethodPost, "/v1/render", strings.Replace(body, "%s", "svg", 1))
	assert.Equal(t, "hit", rec.Header().Get("X-Cache"))

	rec = do(t, s, http.MethodPost, "/v1/render", strings.Replace(body, "%s", "text", 1))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aa..")

	rec = do(t, s, http.MethodPost, "/v1/render", strings.Replace(body, "%s", "gif", 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", decodeBody[errorResponse](t, rec).Code)
}

func TestSpaces(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/spaces/home/layouts/lg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[storedLayoutResponse](t, rec)
	assert.False(t, got.Stored)
	assert.Equal(t, "lg", got.Breakpoint)

	rec = do(t, s, http.MethodPut, "/v1/spaces/home/layouts/lg", `[{"i":"solo","x":0,"y":0,"w":3,"h":2}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/v1/spaces/home/layouts/lg", "")
	got = decodeBody[storedLayoutResponse](t, rec)
	assert.True(t, got.Stored)
	l, err := layoutio.UnmarshalLayout(got.Layout)
	require.NoError(t, err)
	require.Len(t, l, 1)
	assert.Equal(t, "solo", l[0].ID)

	rec = do(t, s, http.MethodGet, "/v1/spaces/home/layouts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[spaceResponse](t, rec)
	assert.Len(t, all.Layouts, 3)

	rec = do(t, s, http.MethodPut, "/v1/spaces/home/layouts/lg", `[{"i":"bad","x":0,"y":0,"w":0,"h":2}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/spaces/home/layouts/xl", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/v1/spaces/home/layouts", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/spaces/home/layouts/lg", "")
	assert.False(t, decodeBody[storedLayoutResponse](t, rec).Stored)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/v2/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[errorResponse](t, rec).Code)

	rec = do(t, s, http.MethodGet, "/v1/move", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type httpEvents struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	routes   []string
	statuses []int
	errs     int
}

func (h *httpEvents) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	h.routes = append(h.routes, method+" "+route)
	h.statuses = append(h.statuses, status)
	h.mu.Unlock()
}

func (h *httpEvents) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	h.errs++
	h.mu.Unlock()
}

func TestHTTPHooks(t *testing.T) {
	hooks := &httpEvents{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t)
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodGet, "/v1/spaces/home/layouts/xl", "")

	assert.Equal(t, []string{"GET /healthz", "GET /v1/spaces/{space}/layouts/{breakpoint}"}, hooks.routes)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, hooks.statuses)
	assert.Equal(t, 1, hooks.errs)
}

func TestStartShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := New(Options{Addr: "127.0.0.1:0"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	transport := &http.Transport{DisableKeepAlives: true}
	defer transport.CloseIdleConnections()
	client := &http.Client{Transport: transport}
	resp, err := client.Get("http://" + s.Addr().String() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestOptionsValidate(t *testing.T) {
	_, err := New(Options{Engine: engine.Options{Grid: grid.GridConfig{Cols: 4, RowHeight: 10}, ContainerWidth: 1}})
	assert.Error(t, err)

	_, err = New(Options{RequestTimeout: -time.Second})
	assert.Error(t, err)
}
