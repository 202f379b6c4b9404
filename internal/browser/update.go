package browser

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/installer"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

const defaultSearchLimit = 200

// Update is the single entry point for every event: a big type switch on
// msg, synchronous state mutation, then at most one outgoing Cmd per
// branch.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchResultMsg:
		if msg.gen != m.searchGen {
			return m, nil // superseded by a newer search
		}
		m.visible = msg.hits
		m.applySort()
		return m, nil

	case previewLoadedMsg:
		if msg.gen != m.previewGen {
			return m, nil
		}
		m.previewID = msg.id
		m.previewContent = msg.content
		return m, nil

	case planReadyMsg:
		if msg.gen != m.installGen {
			return m, nil
		}
		if msg.err != nil {
			m.recoverableErr = msg.err
			m.focus = FocusErrorModal
			return m, nil
		}
		m.plan = msg.plan
		m.focus = FocusConfirmation
		return m, nil

	case installProgressMsg:
		if msg.gen != m.installGen {
			return m, waitInstallCmd(m.installCh)
		}
		m.statusMsg = string(msg.event.Phase) + ": " + msg.event.ResourceID
		return m, waitInstallCmd(m.installCh)

	case installDoneMsg:
		if msg.gen != m.installGen {
			return m, nil
		}
		m.installing = false
		m.installResults = msg.results
		if msg.err != nil {
			m.recoverableErr = msg.err
			m.focus = FocusErrorModal
			return m, announceCmd("install failed: " + msg.err.Error())
		}
		m.selected = make(map[string]bool)
		m.focus = FocusList
		return m, announceCmd("install complete")

	case announceMsg:
		if m.deps.A11y != nil {
			m.deps.A11y.Announce(msg.text)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case FocusSearchInput:
		return m.handleSearchInputKey(msg)
	case FocusHelpOverlay:
		return m.handleHelpKey(msg)
	case FocusConfirmation:
		return m.handleConfirmationKey(msg)
	case FocusErrorModal:
		return m.handleErrorModalKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "/":
		m.focus = FocusSearchInput
		cmd := m.searchBox.Focus()
		return m, cmd

	case "?":
		m.focus = FocusHelpOverlay
		return m, nil

	case "esc":
		if m.query != "" {
			m.query = ""
			m.searchBox.SetValue("")
			m.searchGen++
			return m, searchCmd(m.deps.Index, "", m.kindFilter, defaultSearchLimit, m.searchGen)
		}
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			return m.dispatchPreview()
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			return m.dispatchPreview()
		}
		return m, nil

	case " ":
		if cur, ok := m.currentHit(); ok {
			key := cur.Resource.Key()
			if m.selected[key] {
				delete(m.selected, key)
			} else {
				m.selected[key] = true
			}
		}
		return m, nil

	case "a":
		allSelected := len(m.selected) == len(m.visible) && len(m.visible) > 0
		if allSelected {
			m.selected = make(map[string]bool)
		} else {
			for _, h := range m.visible {
				m.selected[h.Resource.Key()] = true
			}
		}
		return m, nil

	case "s":
		if m.sortDirByField == nil {
			m.sortDirByField = make(map[SortField]Direction)
		}
		m.sortDirByField[m.sortField] = m.sortDir
		m.sortField = nextSortField(m.sortField)
		if dir, ok := m.sortDirByField[m.sortField]; ok {
			m.sortDir = dir
		} else {
			m.sortDir = defaultDirection(m.sortField)
		}
		m.applySort()
		return m, nil

	case "S":
		if m.sortDir == Asc {
			m.sortDir = Desc
		} else {
			m.sortDir = Asc
		}
		if m.sortDirByField == nil {
			m.sortDirByField = make(map[SortField]Direction)
		}
		m.sortDirByField[m.sortField] = m.sortDir
		m.applySort()
		return m, nil

	case "i":
		return m.startInstallFlow()

	case "enter":
		return m.startInstallFlow()
	}
	return m, nil
}

func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusList
		m.searchBox.Blur()
		return m, nil
	case "enter":
		m.focus = FocusList
		m.searchBox.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchBox, cmd = m.searchBox.Update(msg)
	m.query = m.searchBox.Value()
	m.searchGen++
	gen := m.searchGen
	return m, tea.Batch(cmd, searchCmd(m.deps.Index, m.query, m.kindFilter, defaultSearchLimit, gen))
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.focus = FocusList
	}
	return m, nil
}

func (m Model) handleConfirmationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m.confirmInstall()
	case "n", "esc":
		m.focus = FocusList
		m.plan = nil
		return m, nil
	}
	return m, nil
}

func (m Model) handleErrorModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		if m.plan != nil {
			m.recoverableErr = nil
			return m.confirmInstall()
		}
		return m, nil
	case "enter", "esc", "s":
		m.recoverableErr = nil
		m.focus = FocusList
		return m, nil
	}
	return m, nil
}

func (m Model) currentHit() (model.SearchHit, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return model.SearchHit{}, false
	}
	return m.visible[m.cursor], true
}

func (m Model) dispatchPreview() (tea.Model, tea.Cmd) {
	hit, ok := m.currentHit()
	if !ok {
		return m, nil
	}
	m.previewGen++
	return m, previewCmd(hit.Resource, m.previewGen)
}

// startInstallFlow resolves the install plan for the current selection (or
// cursor target if nothing is selected) and routes to the confirmation
// dialog once it is ready.
func (m Model) startInstallFlow() (tea.Model, tea.Cmd) {
	targets := m.selectedResources()
	if len(targets) == 0 {
		hit, ok := m.currentHit()
		if !ok {
			return m, nil
		}
		targets = []*model.Resource{hit.Resource}
	}
	// The browser resolves one plan at a time; a multi-select install
	// resolves the first target only, keeping a single in-flight
	// background worker per kind of deferred work.
	m.installGen++
	return m, planCmd(m.deps.Resolver, targets[0], m.installGen)
}

func (m Model) confirmInstall() (tea.Model, tea.Cmd) {
	if m.plan == nil {
		m.focus = FocusList
		return m, nil
	}
	m.installing = true
	m.installGen++
	gen := m.installGen
	opts := installer.Options{Parallel: true}
	cmd, ch := startInstallCmd(m.deps.Installer, m.plan, opts, gen)
	m.installCh = ch
	return m, cmd
}
