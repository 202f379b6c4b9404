package browser

import (
	"fmt"
	"strings"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// View renders the current Model. Each focus mode owns its own rendering
// function.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.focus {
	case FocusHelpOverlay:
		return m.viewHelp()
	case FocusConfirmation:
		return m.viewConfirmation()
	case FocusErrorModal:
		return m.viewErrorModal()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	if m.focus == FocusSearchInput {
		b.WriteString(m.styles.SearchBox.Render(m.searchBox.View()))
	} else if m.query != "" {
		b.WriteString(m.styles.SearchBox.Render("search: " + m.query))
	}
	b.WriteString("\n")

	for i, hit := range m.visible {
		line := formatRow(hit.Resource, m.selected[hit.Resource.Key()])
		switch {
		case i == m.cursor:
			b.WriteString(m.styles.RowCursor.Render(line))
		case m.selected[hit.Resource.Key()]:
			b.WriteString(m.styles.RowSelected.Render(line))
		default:
			b.WriteString(m.styles.Row.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(m.styles.Row.Render("no resources match"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if hit, ok := m.currentHit(); ok {
		b.WriteString(m.previewFor(hit.Resource))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.StatusBar.Render(m.statusLine()))
	return b.String()
}

func (m Model) previewFor(r *model.Resource) string {
	if m.previewID != r.Key() {
		return r.DeriveSummary()
	}
	return m.previewContent
}

func formatRow(r *model.Resource, selected bool) string {
	mark := "[ ]"
	if selected {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %-8s %-28s %s", mark, r.Type, r.ID, r.Name)
}

func (m Model) statusLine() string {
	return fmt.Sprintf("%d resources | sort:%s/%s | selected:%d", len(m.visible), m.sortField, m.sortDir, len(m.selected))
}

func (m Model) viewHelp() string {
	rows := []struct{ key, desc string }{
		{"/", "search"},
		{"esc", "clear search / close overlay"},
		{"up/k down/j", "move cursor"},
		{"space", "toggle selection"},
		{"a", "select all visible"},
		{"i / enter", "install cursor or selection"},
		{"s", "cycle sort field"},
		{"S", "toggle sort direction"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString("keybindings\n")
	for _, r := range rows {
		b.WriteString(m.styles.HelpKey.Render(fmt.Sprintf("%-14s", r.key)))
		b.WriteString(m.styles.HelpDesc.Render(r.desc))
		b.WriteString("\n")
	}
	return m.styles.DialogBorder.Render(b.String())
}

func (m Model) viewConfirmation() string {
	if m.plan == nil {
		return ""
	}
	var b strings.Builder
	if m.installing {
		b.WriteString("installing...\n")
		b.WriteString(m.statusMsg)
		return m.styles.DialogBorder.Render(b.String())
	}
	fmt.Fprintf(&b, "install %s and %d dependent level(s)?\n\n", m.plan.Target.ID, len(m.plan.ToInstall)-1)
	for i, level := range m.plan.ToInstall {
		fmt.Fprintf(&b, "level %d: ", i)
		names := make([]string, 0, len(level))
		for _, r := range level {
			names = append(names, r.ID)
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
	if m.plan.Incomplete() {
		b.WriteString("\nmissing required dependencies:\n")
		for _, ref := range m.plan.Missing {
			fmt.Fprintf(&b, "  - %s\n", ref.Key())
		}
	}
	b.WriteString("\n[y] confirm  [n] cancel")
	return m.styles.DialogBorder.Render(b.String())
}

func (m Model) viewErrorModal() string {
	if m.recoverableErr == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.ErrorText.Render(m.recoverableErr.Error()))
	b.WriteString("\n\n[r] retry  [s] skip  [esc] dismiss")
	return m.styles.DialogBorder.Render(b.String())
}
