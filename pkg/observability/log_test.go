package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	h.Install()

	Layout().OnCompact(ctx, "vertical", 4, time.Millisecond)
	Layout().OnMove(ctx, "chat", 2, 0, true)
	Layout().OnValidate(ctx, "lg", nil)
	Layout().OnValidate(ctx, "md", errors.New("duplicate id"))
	Cache().OnCacheSet(ctx, "layout:home:lg", 120)
	HTTP().OnError(ctx, "PUT", "/v1/spaces/{space}/layouts/{breakpoint}", errors.New("bad body"))

	out := buf.String()
	for _, want := range []string{
		"compactor=vertical", "id=chat", "blocked=true",
		"context=md", "key=layout:home:lg", "bytes=120", "err=\"bad body\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "context=lg") {
		t.Error("successful validation should not be logged")
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCompact(context.Background(), "vertical", 4, time.Millisecond)
	h.OnCacheHit(context.Background(), "layout:home:lg")
	if buf.Len() != 0 {
		t.Errorf("debug events written at info level: %q", buf.String())
	}
}
