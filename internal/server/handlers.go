package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/dear23/gridlayout/pkg/buildinfo"
	"github.com/dear23/gridlayout/pkg/engine"
	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/observability"
	"github.com/dear23/gridlayout/pkg/pipeline"
	"github.com/dear23/gridlayout/pkg/responsive"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// =============================================================================
// Request and Response Types
// =============================================================================

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// layoutRequest is the common body of the layout endpoints. Layout uses the
// same item encoding as layout files.
type layoutRequest struct {
	Layout           jsoniter.RawMessage `json:"layout"`
	Cols             int                 `json:"cols,omitempty"`
	Compactor        string              `json:"compactor,omitempty"`
	AllowOverlap     bool                `json:"allow_overlap,omitempty"`
	PreventCollision bool                `json:"prevent_collision,omitempty"`
}

type moveRequest struct {
	layoutRequest
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

type resizeRequest struct {
	layoutRequest
	ID     string `json:"id"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	Handle string `json:"handle,omitempty"`
}

type renderRequest struct {
	layoutRequest
	Format         string      `json:"format,omitempty"`
	ContainerWidth float64     `json:"container_width,omitempty"`
	RowHeight      float64     `json:"row_height,omitempty"`
	Margin         *[2]float64 `json:"margin,omitempty"`
	Scale          float64     `json:"scale,omitempty"`
	Title          string      `json:"title,omitempty"`
	GridLines      bool        `json:"grid_lines,omitempty"`
	NoLabels       bool        `json:"no_labels,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type layoutResponse struct {
	Layout jsoniter.RawMessage `json:"layout"`
	Rows   int                 `json:"rows"`
	Cached bool                `json:"cached,omitempty"`
}

type storedLayoutResponse struct {
	Space      string              `json:"space"`
	Breakpoint string              `json:"breakpoint"`
	Stored     bool                `json:"stored"`
	Layout     jsoniter.RawMessage `json:"layout"`
}

type spaceResponse struct {
	Space   string                         `json:"space"`
	Layouts map[string]jsoniter.RawMessage `json:"layouts"`
}

type breakpointResponse struct {
	Width      float64 `json:"width"`
	Breakpoint string  `json:"breakpoint"`
	Cols       int     `json:"cols"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatTOML: "application/toml",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := req.layout()
	if err == nil {
		err = grid.ValidateLayout(l, "request")
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "items": len(l)})
}

func (s *Server) handleCompact(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := req.pipelineOptions()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, hit, err := s.runner.CompactWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondLayout(w, r, l, hit)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := req.pipelineOptions()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	format := req.Format
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	opts.ContainerWidth = req.ContainerWidth
	opts.RowHeight = req.RowHeight
	opts.Margin = req.Margin
	opts.Scale = req.Scale
	opts.Title = req.Title
	opts.GridLines = req.GridLines
	opts.NoLabels = req.NoLabels

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	cache := "miss"
	if res.CacheInfo.RenderHit {
		cache = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cache)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	e, err := s.engineFor(r, req.layoutRequest)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := e.Move(r.Context(), req.ID, req.X, req.Y)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondLayout(w, r, l, false)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	e, err := s.engineFor(r, req.layoutRequest)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := e.ResizeTo(r.Context(), req.ID, req.W, req.H, grid.ResizeHandle(req.Handle))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondLayout(w, r, l, false)
}

func (s *Server) handleBreakpoint(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.ParseFloat(r.URL.Query().Get("width"), 64)
	if err != nil || width < 0 {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "width must be a non-negative number"))
		return
	}
	bp := responsive.BreakpointFromWidth(s.opts.Breakpoints, width)
	cols, err := responsive.ColsFromBreakpoint(bp, s.opts.Cols)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, breakpointResponse{Width: width, Breakpoint: bp, Cols: cols})
}

func (s *Server) handleGetLayouts(w http.ResponseWriter, r *http.Request) {
	space := chi.URLParam(r, "space")
	all, err := s.store.All(r.Context(), space)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp := spaceResponse{Space: space, Layouts: make(map[string]jsoniter.RawMessage, len(all))}
	for bp, l := range all {
		data, err := layoutio.MarshalLayout(l)
		if err != nil {
			s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
			return
		}
		resp.Layouts[bp] = data
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetLayouts(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context(), chi.URLParam(r, "space")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	space, bp := chi.URLParam(r, "space"), chi.URLParam(r, "breakpoint")
	l, stored, err := s.store.Get(r.Context(), space, bp)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	data, err := layoutio.MarshalLayout(l)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	writeJSON(w, http.StatusOK, storedLayoutResponse{Space: space, Breakpoint: bp, Stored: stored, Layout: data})
}

// handlePutLayout stores the request body, a layout in file encoding.
func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	space, bp := chi.URLParam(r, "space"), chi.URLParam(r, "breakpoint")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	l, err := layoutio.UnmarshalLayout(body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.store.Update(r.Context(), space, bp, l); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storedLayoutResponse{Space: space, Breakpoint: bp, Stored: true, Layout: body})
}

// =============================================================================
// Helpers
// =============================================================================

func (req layoutRequest) layout() (grid.Layout, error) {
	if len(req.Layout) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout is required")
	}
	return layoutio.UnmarshalLayout(req.Layout)
}

func (req layoutRequest) pipelineOptions() (pipeline.Options, error) {
	l, err := req.layout()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Layout:           l,
		Cols:             req.Cols,
		Compactor:        req.Compactor,
		AllowOverlap:     req.AllowOverlap,
		PreventCollision: req.PreventCollision,
	}, nil
}

// engineFor builds a one-shot engine over the request layout. The request
// may override the configured column count and compactor.
func (s *Server) engineFor(r *http.Request, req layoutRequest) (*engine.Engine, error) {
	l, err := req.layout()
	if err != nil {
		return nil, err
	}
	opts := s.opts.Engine
	opts.Logger = s.logger
	if req.Cols > 0 {
		opts.Grid.Cols = req.Cols
	}
	if req.Compactor != "" || req.AllowOverlap || req.PreventCollision {
		po := pipeline.Options{Compactor: req.Compactor, AllowOverlap: req.AllowOverlap, PreventCollision: req.PreventCollision}
		if po.Compactor == "" {
			po.Compactor = opts.Compactor.Name()
		}
		if err := pipeline.ValidateCompactor(po.Compactor); err != nil {
			return nil, err
		}
		if err := pipeline.ValidateOverlap(po.Compactor, po.AllowOverlap); err != nil {
			return nil, err
		}
		opts.Compactor = po.NewCompactor()
	}
	if _, ok := opts.Compactor.(*grid.WrapCompactor); ok {
		// A shared wrap compactor would carry one request's order into the next.
		opts.Compactor = grid.NewWrapCompactor()
	}
	return engine.New(r.Context(), l, opts)
}

func (s *Server) respondLayout(w http.ResponseWriter, r *http.Request, l grid.Layout, cached bool) {
	data, err := layoutio.MarshalLayout(l)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: data, Rows: l.Bottom(), Cached: cached})
}

// respondError writes err as {"code", "error"} with the status its code
// maps to.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Error: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch errors.ClassOf(err) {
	case errors.ClassValidation:
		return http.StatusBadRequest
	case errors.ClassNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
