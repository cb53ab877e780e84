package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/radialtree/pkg/hierarchy"
	"github.com/matzehuels/radialtree/pkg/layout"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorFaint)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
)

// nodeHeaders are the columns of the placement table.
var nodeHeaders = []string{"Node", "Depth", "Angle", "X", "Y", "Z", "Parents"}

// nodeRow formats one placed node for the placement table.
func nodeRow(n layout.PlacedNode, h *hierarchy.Hierarchy) []string {
	parents := "root"
	if h != nil {
		if ps := h.Parents(n.ID); len(ps) > 0 {
			parents = strings.Join(ps, ", ")
		}
	}
	return []string{
		n.ID,
		fmt.Sprintf("%d", n.Depth),
		fmt.Sprintf("%.1f°", n.Angle*180/math.Pi),
		fmt.Sprintf("%.3f", n.Pos.X),
		fmt.Sprintf("%.3f", n.Pos.Y),
		fmt.Sprintf("%.3f", n.Pos.Z),
		parents,
	}
}

// nodeTable renders rows as a bordered table. highlight is the row index to
// emphasize, or -1.
func nodeTable(rows [][]string, highlight int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers(nodeHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == highlight {
				return base.Foreground(colorAccent).Bold(true)
			}
			switch col {
			case 0:
				return base.Foreground(colorText)
			case 1, 2:
				return base.Foreground(colorAccent)
			case 6:
				return base.Foreground(colorFaint)
			}
			return base.Foreground(colorMuted)
		}).
		Render()
}

// =============================================================================
// SceneListModel - Interactive placement browser
// =============================================================================

// SceneListModel is the bubbletea model for scrolling through node
// placements.
type SceneListModel struct {
	Scene     *layout.Scene
	Hierarchy *hierarchy.Hierarchy
	Cursor    int
	Height    int
	Offset    int
}

// NewSceneListModel creates a new placement browser.
func NewSceneListModel(s *layout.Scene, h *hierarchy.Hierarchy) SceneListModel {
	return SceneListModel{
		Scene:     s,
		Hierarchy: h,
		Height:    15,
	}
}

func (m SceneListModel) Init() tea.Cmd {
	return nil
}

func (m SceneListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Scene.Nodes)
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
			if m.Cursor < n-1 {
				m.Cursor++
			}
		case "pgup":
			m.Cursor = max(m.Cursor-m.Height, 0)
		case "pgdown":
			m.Cursor = max(min(m.Cursor+m.Height, n-1), 0)
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(n-1, 0)
		}
	case tea.WindowSizeMsg:
		// Title, help, detail pane and table borders take about ten lines.
		m.Height = max(msg.Height-10, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m SceneListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Node Placements"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  q quit"))
	b.WriteString("\n\n")

	if len(m.Scene.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no placed nodes"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Scene.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		rows = append(rows, nodeRow(m.Scene.Nodes[i], m.Hierarchy))
	}
	b.WriteString(nodeTable(rows, m.Cursor-m.Offset))
	b.WriteString("\n")

	cur := m.Scene.Nodes[m.Cursor]
	if m.Hierarchy != nil {
		children := m.Hierarchy.Children(cur.ID)
		kids := "none"
		if len(children) > 0 {
			kids = strings.Join(children, ", ")
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", StyleNodeID.Render(cur.ID), arrowGlyph, StyleDim.Render(kids)))
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Scene.Nodes))))
	if k := len(m.Scene.Disconnected); k > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  %d unplaced", k)))
	}

	return b.String()
}
