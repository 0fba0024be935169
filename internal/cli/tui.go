package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dear23/gridlayout/pkg/engine"
	"github.com/dear23/gridlayout/pkg/errors"
	"github.com/dear23/gridlayout/pkg/grid"
	layoutio "github.com/dear23/gridlayout/pkg/io"
	"github.com/dear23/gridlayout/pkg/render"
)

var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

const editHelp = "tab select  ←↑↓→/hjkl move  shift+arrows/HJKL resize  c compact  s save  q quit"

// =============================================================================
// EditModel - Interactive layout editor
// =============================================================================

// EditModel is the bubbletea model for editing a layout in the terminal.
// Every key is applied through the engine, so moves push and compact
// exactly as a dashboard drag would.
type EditModel struct {
	ctx    context.Context
	engine *engine.Engine
	path   string

	IDs    []string
	Cursor int
	Dirty  bool
	Saved  bool
	Status string
	Err    error
}

// NewEditModel creates an editor over e that saves to path.
func NewEditModel(ctx context.Context, e *engine.Engine, path string) EditModel {
	return EditModel{
		ctx:    ctx,
		engine: e,
		path:   path,
		IDs:    render.SortedIDs(e.Layout()),
	}
}

// Selected returns the id of the selected item, or "" for an empty layout.
func (m EditModel) Selected() string {
	if len(m.IDs) == 0 {
		return ""
	}
	return m.IDs[m.Cursor]
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.Err = nil
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		if len(m.IDs) > 0 {
			m.Cursor = (m.Cursor + 1) % len(m.IDs)
		}
	case "shift+tab":
		if len(m.IDs) > 0 {
			m.Cursor = (m.Cursor + len(m.IDs) - 1) % len(m.IDs)
		}
	case "left", "h":
		m.move(-1, 0)
	case "right", "l":
		m.move(1, 0)
	case "up", "k":
		m.move(0, -1)
	case "down", "j":
		m.move(0, 1)
	case "shift+left", "H":
		m.resize(-1, 0)
	case "shift+right", "L":
		m.resize(1, 0)
	case "shift+up", "K":
		m.resize(0, -1)
	case "shift+down", "J":
		m.resize(0, 1)
	case "c":
		m.engine.Compact(m.ctx)
		m.Dirty = true
		m.Status = "compacted"
	case "s":
		if err := layoutio.WriteLayoutFile(m.path, m.engine.Layout()); err != nil {
			m.Err = err
			return m, nil
		}
		m.Dirty, m.Saved = false, true
		m.Status = "saved " + m.path
	}
	return m, nil
}

func (m *EditModel) move(dx, dy int) {
	it, err := m.engine.Item(m.Selected())
	if err != nil {
		m.Err = err
		return
	}
	x, y := max(it.X+dx, 0), max(it.Y+dy, 0)
	if _, err := m.engine.Move(m.ctx, it.ID, x, y); err != nil {
		m.Err = err
		return
	}
	m.Dirty = true
	m.Status = fmt.Sprintf("moved %s to (%d,%d)", it.ID, x, y)
}

func (m *EditModel) resize(dw, dh int) {
	it, err := m.engine.Item(m.Selected())
	if err != nil {
		m.Err = err
		return
	}
	w, h := max(it.W+dw, 1), max(it.H+dh, 1)
	if _, err := m.engine.ResizeTo(m.ctx, it.ID, w, h, grid.HandleSE); err != nil {
		m.Err = err
		return
	}
	m.Dirty = true
	m.Status = fmt.Sprintf("resized %s to %dx%d", it.ID, w, h)
}

func (m EditModel) View() string {
	var b strings.Builder

	title := "Edit " + m.path
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(editDimStyle.Render(editHelp))
	b.WriteString("\n\n")

	l := m.engine.Layout()
	b.WriteString(renderGrid(l, m.engine.Options().Grid.Cols))
	b.WriteString("\n")

	if id := m.Selected(); id != "" {
		it := l.Find(id)
		b.WriteString(editSelectedStyle.Render(fmt.Sprintf("▸ %s (%d,%d) %dx%d", it.ID, it.X, it.Y, it.W, it.H)))
		if f := itemFlags(it); f != "" {
			b.WriteString(" " + editDimStyle.Render(f))
		}
		b.WriteString("\n")
	}
	switch {
	case m.Err != nil:
		b.WriteString(editErrorStyle.Render(errors.UserMessage(m.Err)))
	case m.Status != "":
		b.WriteString(editDimStyle.Render(m.Status))
	}
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// edit command
// =============================================================================

func (c *CLI) editCommand() *cobra.Command {
	var flags layoutFlags
	cmd := &cobra.Command{
		Use:   "edit [layout]",
		Short: "Move and resize items interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			l, err := layoutio.ReadLayoutFile(args[0])
			if err != nil {
				return err
			}
			opts, err := flags.engineOptions(cfg)
			if err != nil {
				return err
			}
			opts.Logger = loggerFromContext(ctx)
			e, err := engine.New(ctx, l, opts)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewEditModel(ctx, e, args[0]), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("run editor: %w", err)
			}
			if m, ok := final.(EditModel); ok && m.Dirty {
				printWarning("Unsaved changes to %s discarded", args[0])
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}
