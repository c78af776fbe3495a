package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sdkorder/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(18)
)

func (c *CLI) browseCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "browse <manifest>",
		Short: "Browse packages and their requirements interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.execute(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(res.Report.Packages) == 0 {
				printInfo(w, "No packages")
				return nil
			}

			p := tea.NewProgram(NewPackageBrowserModel(res.Report), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			fm, ok := final.(PackageBrowserModel)
			if !ok || fm.Selected == nil {
				printDetail(w, "No selection made")
				return nil
			}
			fmt.Fprintln(w, fm.details(*fm.Selected))
			return nil
		},
	}
	cmd.ValidArgsFunction = completeManifest

	flags.register(cmd)
	return cmd
}

// =============================================================================
// PackageBrowserModel - Interactive package browser
// =============================================================================

// PackageBrowserModel is the bubbletea model listing the packages of a
// report with the requirements of the package under the cursor.
type PackageBrowserModel struct {
	Packages []pipeline.PackageReport
	Cursor   int
	Offset   int
	Height   int
	Selected *pipeline.PackageReport

	// position maps a step key ("Engine_1/classes") to its 1-based place in
	// the emission order.
	position map[string]int
}

// NewPackageBrowserModel creates a browser over the packages of rep.
func NewPackageBrowserModel(rep *pipeline.Report) PackageBrowserModel {
	pos := make(map[string]int, len(rep.Steps))
	for i, s := range rep.Steps {
		if s.File != "" {
			pos[s.Package+"/"+s.Kind] = i + 1
		}
	}
	return PackageBrowserModel{
		Packages: rep.Packages,
		Height:   12,
		position: pos,
	}
}

func (m PackageBrowserModel) Init() tea.Cmd {
	return nil
}

func (m PackageBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Packages)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Packages)-1, 0)
		case "enter":
			if len(m.Packages) == 0 {
				return m, nil
			}
			selected := m.Packages[m.Cursor]
			m.Selected = &selected
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, help line and detail pane.
		m.Height = max(msg.Height-14, 5)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *PackageBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m PackageBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Packages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Packages))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		p := m.Packages[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			p.UniqueName,
			m.step(p.UniqueName, "structs"),
			m.step(p.UniqueName, "classes"),
			strconv.Itoa(len(p.StructsRequire) + len(p.ClassesRequire)),
		})
	}

	t := newTable([]string{"", "Package", "Structs #", "Classes #", "Requires"}, rows, func(row, col int) lipgloss.Style {
		idx := m.Offset + row
		switch {
		case idx == m.Cursor:
			return listSelectedStyle
		case idx < len(m.Packages) && m.Packages[idx].Empty:
			return listDimStyle
		}
		return StyleValue
	})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(m.Packages) > 0 {
		b.WriteString(m.details(m.Packages[m.Cursor]))
		b.WriteString("\n\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Packages))))
	return b.String()
}

// step returns the place of a package's header in the emission order, or a
// dash when the package emits nothing of that kind.
func (m PackageBrowserModel) step(name, kind string) string {
	if n, ok := m.position[name+"/"+kind]; ok {
		return strconv.Itoa(n)
	}
	return "—"
}

func (m PackageBrowserModel) details(p pipeline.PackageReport) string {
	line := func(key string, values []string) string {
		v := "—"
		if len(values) > 0 {
			v = strings.Join(values, ", ")
		}
		return detailKeyStyle.Render(key) + " " + StyleValue.Render(v)
	}

	title := p.UniqueName
	if p.UniqueName != p.Name {
		title += listDimStyle.Render(fmt.Sprintf(" (%s)", p.Name))
	}
	lines := []string{
		StyleTitle.Render(title) + listDimStyle.Render(fmt.Sprintf("  id %d", p.ID)),
		line("structs requires", p.StructsRequire),
		line("classes requires", p.ClassesRequire),
		line("param includes", p.ParamIncludes),
	}
	return strings.Join(lines, "\n")
}
