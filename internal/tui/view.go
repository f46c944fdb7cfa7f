// internal/tui/view.go
//
// Rendering for the editor: status board layout, the floating return
// control shown during an isolated-edit session, modal overlays, and the
// log panel.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}
	var content string
	switch a.state {
	case stateBrowser:
		content = a.browser.View()
		if len(a.templates) == 0 {
			content = "No templates yet. Press n to create one."
		}
	case stateEditor:
		content = a.renderTree(leftWidth - 4)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ PREFABEDIT")
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, leftWidth)).
		Render(content)

	var body string
	if rightWidth > 0 {
		rightBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(max(20, rightWidth)).
			Render(a.renderSessionPanel(rightWidth - 4))
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	} else {
		body = leftBox
	}

	sections := []string{header, body}
	if control := a.renderFloatingControl(); control != "" {
		sections = append(sections, control)
	}
	if modal := a.renderModal(); modal != "" {
		sections = append(sections, modal)
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderSessionPanel(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("Session")
	lines := []string{
		fmt.Sprintf("Scene: %s", a.workspaceName()),
		fmt.Sprintf("Templates: %d", len(a.templates)),
	}
	if a.workspace != nil && a.workspace.Dirty() {
		lines = append(lines, "⚠ unsaved changes")
	}
	if ses := a.controller.Session(); ses != nil {
		lines = append(lines,
			"",
			"Isolated edit:",
			fmt.Sprintf("  template %s", filepath.Base(ses.TemplatePath)),
			fmt.Sprintf("  from %s", ses.PriorLabel),
		)
	} else {
		lines = append(lines, "", "Ctrl+E edits the selected template")
	}
	body := lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

// renderFloatingControl draws the always-on-top return control while an
// isolated-edit session is active.
func (a *App) renderFloatingControl() string {
	if !a.controller.ControlVisible() {
		return ""
	}
	ses := a.controller.Session()
	label := ses.PriorLabel
	if label == "" {
		label = "previous scene"
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#F2C94C")).
		Padding(0, 1).
		Render(fmt.Sprintf("Ctrl+R → return to %s", label))
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirm:
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1).
			Render(fmt.Sprintf("%s\nEnter → yes    Esc → no", a.confirmPrompt))
	case modalInput:
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1).
			Render(fmt.Sprintf("%s\n%s", a.inputPrompt, a.input.View()))
	}
	return ""
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", filepath.Base(a.logbook.Path())))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) workspaceName() string {
	if a.workspace == nil {
		return "none"
	}
	if a.workspace.Label != "" {
		return a.workspace.Label
	}
	return filepath.Base(a.workspace.Path())
}
