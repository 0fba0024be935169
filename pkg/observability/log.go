package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed
// validations and HTTP errors go out at warn. It implements LayoutHooks,
// CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to l, which must not be nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

// Install registers h for all three event categories.
func (h *LogHooks) Install() {
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnCompact(_ context.Context, compactor string, items int, d time.Duration) {
	h.logger.Debug("compact", "compactor", compactor, "items", items, "duration", d)
}

func (h *LogHooks) OnMove(_ context.Context, id string, x, y int, blocked bool) {
	h.logger.Debug("move", "id", id, "x", x, "y", y, "blocked", blocked)
}

func (h *LogHooks) OnResize(_ context.Context, id string, w, hgt int, blocked bool) {
	h.logger.Debug("resize", "id", id, "w", w, "h", hgt, "blocked", blocked)
}

func (h *LogHooks) OnBreakpointChange(_ context.Context, from, to string, cols int) {
	h.logger.Debug("breakpoint", "from", from, "to", to, "cols", cols)
}

func (h *LogHooks) OnValidate(_ context.Context, contextName string, err error) {
	if err != nil {
		h.logger.Warn("invalid layout", "context", contextName, "err", err)
	}
}

func (h *LogHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *LogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *LogHooks) OnRequest(context.Context, string, string) {}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Warn("request error", "method", method, "route", route, "err", err)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
