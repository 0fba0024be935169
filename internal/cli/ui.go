package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dear23/gridlayout/pkg/grid"
	"github.com/dear23/gridlayout/pkg/render"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// itemColors cycle over items in the character grid.
var itemColors = []lipgloss.Color{"36", "75", "220", "171", "114", "209", "141", "80"}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleOverlap = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printStats prints layout statistics on a single line.
func printStats(items, rows int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d items", items),
		fmt.Sprintf("%d rows", rows),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Println(line)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Layout Display
// =============================================================================

// renderGrid draws l as a colored character grid with a legend. Each item
// keeps one color; overlapping cells are red.
func renderGrid(l grid.Layout, cols int) string {
	styles := make(map[byte]lipgloss.Style, len(l))
	for i := range render.SortedIDs(l) {
		styles[render.Glyph(i)] = lipgloss.NewStyle().Foreground(itemColors[i%len(itemColors)])
	}

	lines := strings.Split(render.Text(l, cols), "\n")
	rows := l.Bottom()
	var b strings.Builder
	for n, line := range lines {
		if n > 0 {
			b.WriteByte('\n')
		}
		if n >= rows {
			// Legend lines start with the item's glyph.
			if line != "" {
				if st, ok := styles[line[0]]; ok {
					line = st.Render(line[:1]) + line[1:]
				}
			}
			b.WriteString(line)
			continue
		}
		for i := 0; i < len(line); i++ {
			ch := line[i]
			switch st, ok := styles[ch]; {
			case ch == '.':
				b.WriteString(StyleDim.Render("."))
			case ch == '*':
				b.WriteString(styleOverlap.Render("*"))
			case ok:
				b.WriteString(st.Render(string(ch)))
			default:
				b.WriteByte(ch)
			}
		}
	}
	return b.String()
}

// layoutTable renders l as a table in natural id order.
func layoutTable(l grid.Layout) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(l))
	for _, id := range render.SortedIDs(l) {
		it := l.Find(id)
		rows = append(rows, []string{
			it.ID,
			strconv.Itoa(it.X), strconv.Itoa(it.Y),
			strconv.Itoa(it.W), strconv.Itoa(it.H),
			itemFlags(it),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "X", "Y", "W", "H", "Flags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 5 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func itemFlags(it *grid.Item) string {
	var flags []string
	if it.Static {
		flags = append(flags, "static")
	}
	if it.IsDraggable != nil && !*it.IsDraggable {
		flags = append(flags, "fixed")
	}
	if it.IsResizable != nil && !*it.IsResizable {
		flags = append(flags, "no-resize")
	}
	if it.MinW > 0 || it.MinH > 0 || it.MaxW > 0 || it.MaxH > 0 {
		flags = append(flags, "bounded-size")
	}
	return strings.Join(flags, " ")
}
