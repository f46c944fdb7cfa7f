// internal/tui/editor_view.go
//
// Scene editor screen: a flattened object tree with cursor navigation
// and the small set of mutations (add, rename, delete) that make the
// scratch scene worth isolating.

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prefabworks/prefabedit/internal/scene"
)

// treeRow is one visible line of the object tree.
type treeRow struct {
	obj   *scene.Object
	depth int
}

func (a *App) rebuildRows() {
	a.rows = a.rows[:0]
	if a.workspace == nil {
		return
	}
	for _, root := range a.workspace.Roots {
		a.appendRows(root, 0)
	}
	if a.cursor >= len(a.rows) {
		a.cursor = max(0, len(a.rows)-1)
	}
}

func (a *App) appendRows(obj *scene.Object, depth int) {
	a.rows = append(a.rows, treeRow{obj: obj, depth: depth})
	for _, child := range obj.Children {
		a.appendRows(child, depth+1)
	}
}

func (a *App) selectedRow() (treeRow, bool) {
	if a.cursor < 0 || a.cursor >= len(a.rows) {
		return treeRow{}, false
	}
	return a.rows[a.cursor], true
}

func (a *App) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.rows)-1 {
			a.cursor++
		}
	case "o":
		obj := &scene.Object{ID: scene.NewObjectID(), Name: "Object"}
		a.workspace.AddRoot(obj)
		a.rebuildRows()
		a.Select(obj.ID)
		a.statusMsg = "Added root object"
	case "a":
		row, ok := a.selectedRow()
		if !ok {
			return nil
		}
		parent := row.obj
		a.openInput("Child object name", func(name string) tea.Cmd {
			child := &scene.Object{ID: scene.NewObjectID(), Name: name}
			parent.Children = append(parent.Children, child)
			a.workspace.MarkDirty()
			a.rebuildRows()
			a.Select(child.ID)
			a.statusMsg = fmt.Sprintf("Added %s under %s", name, parent.Name)
			return nil
		})
	case "r":
		row, ok := a.selectedRow()
		if !ok {
			return nil
		}
		target := row.obj
		a.openInput(fmt.Sprintf("Rename %s", target.Name), func(name string) tea.Cmd {
			target.Name = name
			a.workspace.MarkDirty()
			a.statusMsg = fmt.Sprintf("Renamed to %s", name)
			return nil
		})
	case "d":
		row, ok := a.selectedRow()
		if !ok {
			return nil
		}
		if a.workspace.Destroy(row.obj.ID) {
			a.rebuildRows()
			a.statusMsg = fmt.Sprintf("Deleted %s", row.obj.Name)
		}
	}
	return nil
}

func (a *App) renderTree(width int) string {
	if a.workspace == nil {
		return "No scene open"
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("SCENE · %s", a.workspace.Label))
	if len(a.rows) == 0 {
		empty := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).
			Render("Empty scene. Press o to add an object.")
		return lipgloss.JoinVertical(lipgloss.Left, title, empty, a.renderEditorHints())
	}
	var lines []string
	for i, row := range a.rows {
		marker := "  "
		if i == a.cursor {
			marker = "▸ "
		}
		label := row.obj.Name
		if row.obj.Binding != nil {
			label += " ⇠ " + row.obj.Binding.TemplatePath
		}
		line := marker + strings.Repeat("  ", row.depth) + label
		style := lipgloss.NewStyle().Width(max(20, width))
		if i == a.cursor {
			style = style.Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
		}
		lines = append(lines, style.Render(line))
	}
	body := strings.Join(lines, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, title, body, a.renderEditorHints())
}

func (a *App) renderEditorHints() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("o add root · a add child · r rename · d delete · Ctrl+S save · Tab browser")
}
