package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietSpinner(ctx context.Context, message string) (*Spinner, *syncBuffer) {
	var out syncBuffer
	s := newSpinner(ctx, message)
	s.w = &out
	return s, &out
}

func TestSpinnerWritesFrames(t *testing.T) {
	s, out := quietSpinner(context.Background(), "Compacting 12 items")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.SetMessage("Rendering svg")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Compacting 12 items") {
		t.Errorf("output lacks first message: %q", got)
	}
	if !strings.Contains(got, "Rendering svg") {
		t.Errorf("output lacks updated message: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("Stop should clear the line, output ends %q", got[max(0, len(got)-10):])
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
	if s.Elapsed() < 6*spinnerInterval {
		t.Errorf("Elapsed = %s", s.Elapsed())
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Rendering")
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithError("render failed")
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s, out := quietSpinner(context.Background(), "never shown")

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop without Start blocked")
	}
	if out.String() != "" {
		t.Errorf("unstarted spinner wrote %q", out.String())
	}
}

func TestSpinnerContextEnds(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"Cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"Timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), spinnerInterval/2)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s, _ := quietSpinner(ctx, "Rendering")
			s.Start()
			time.Sleep(2 * spinnerInterval)
			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
			s.Stop()
		})
	}
}
