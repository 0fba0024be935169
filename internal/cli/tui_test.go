package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dear23/gridlayout/pkg/engine"
	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
)

func newEditModel(t *testing.T, l grid.Layout) EditModel {
	t.Helper()
	e, err := engine.New(context.Background(), l, engine.Options{
		Grid:           grid.GridConfig{Cols: 4, RowHeight: 50, Margin: [2]float64{10, 10}},
		ContainerWidth: 430,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return NewEditModel(context.Background(), e, filepath.Join(t.TempDir(), "board.json"))
}

func press(m EditModel, keys ...tea.KeyMsg) EditModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(EditModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditModelSelection(t *testing.T) {
	m := newEditModel(t, grid.Layout{
		{ID: "b", X: 1, Y: 0, W: 1, H: 1},
		{ID: "a", X: 0, Y: 0, W: 1, H: 1},
	})

	if got := m.Selected(); got != "a" {
		t.Fatalf("Selected() = %q, want a", got)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Selected(); got != "b" {
		t.Errorf("after tab Selected() = %q, want b", got)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Selected(); got != "a" {
		t.Errorf("tab should wrap, Selected() = %q", got)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.Selected(); got != "b" {
		t.Errorf("after shift+tab Selected() = %q, want b", got)
	}
}

func TestEditModelMoveResize(t *testing.T) {
	m := newEditModel(t, grid.Layout{
		{ID: "a", X: 0, Y: 0, W: 1, H: 1},
		{ID: "b", X: 0, Y: 1, W: 1, H: 1},
	})

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, runes("l"))
	a, _ := m.engine.Item("a")
	if a.X != 2 {
		t.Errorf("a.x = %d, want 2", a.X)
	}
	if !m.Dirty || !strings.Contains(m.Status, "moved a") {
		t.Errorf("Dirty = %v, Status = %q", m.Dirty, m.Status)
	}

	// Moving left past the edge stops at column 0.
	m = press(m, runes("h"), runes("h"), runes("h"))
	if a, _ = m.engine.Item("a"); a.X != 0 {
		t.Errorf("a.x = %d, want 0", a.X)
	}

	m = press(m, runes("J"))
	a, _ = m.engine.Item("a")
	b, _ := m.engine.Item("b")
	if a.H != 2 || b.Y != 2 {
		t.Errorf("after resize a.h=%d b.y=%d, want 2 and 2", a.H, b.Y)
	}

	// Width never shrinks below one column.
	m = press(m, runes("H"))
	if a, _ = m.engine.Item("a"); a.W != 1 {
		t.Errorf("a.w = %d, want 1", a.W)
	}
}

func TestEditModelStaticItem(t *testing.T) {
	m := newEditModel(t, grid.Layout{{ID: "wall", X: 0, Y: 0, W: 1, H: 1, Static: true}})

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Err == nil {
		t.Fatal("moving a static item should fail")
	}
	if m.Dirty {
		t.Error("failed move marked the model dirty")
	}
	if !strings.Contains(m.View(), "not draggable") {
		t.Errorf("View() does not show the error:\n%s", m.View())
	}
}

func TestEditModelSaveQuit(t *testing.T) {
	m := newEditModel(t, grid.Layout{{ID: "a", X: 0, Y: 0, W: 1, H: 1}})

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, runes("s"))
	if !m.Saved || m.Dirty {
		t.Errorf("Saved = %v, Dirty = %v", m.Saved, m.Dirty)
	}
	l, err := layoutio.ReadLayoutFile(m.path)
	if err != nil {
		t.Fatalf("read saved layout: %v", err)
	}
	if l.Find("a").X != 1 {
		t.Errorf("saved x = %d, want 1", l.Find("a").X)
	}

	if _, cmd := m.Update(runes("q")); cmd == nil {
		t.Error("q should quit")
	}
	if _, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil {
		t.Error("window size should not produce a command")
	}
}
