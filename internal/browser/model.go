package browser

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/a11y"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/catalog"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/installer"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/resolver"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/search"
)

// Deps bundles the subsystems the browser drives. Held by value in Model
// since they are all safe for concurrent use and the Model itself is
// copied on every Update.
type Deps struct {
	Loader   *catalog.Loader
	Index    *search.Index
	Resolver *resolver.Resolver
	Installer *installer.Installer
	A11y     a11y.Sink
}

// Model is the Bubble Tea model for the interactive browser. It is a plain
// value type: Update receives it by value, mutates a local copy, and
// returns that copy — no pointer receivers.
type Model struct {
	deps Deps

	styles Styles
	width  int
	height int

	focus Focus

	all      []*model.Resource
	visible  []model.SearchHit
	cursor   int
	selected map[string]bool // kind-qualified key -> selected

	kindFilter model.Kind
	sortField  SortField
	sortDir    Direction
	// sortDirByField remembers the last direction used for each field the
	// user has already cycled to this session, so toggling S then cycling
	// away and back with s restores it instead of resetting to the
	// hardcoded default. A field absent from the map gets defaultDirection
	// the first time it becomes current.
	sortDirByField map[SortField]Direction

	query      string
	searchBox  textinput.Model

	previewID      string
	previewContent string

	plan           *model.InstallPlan
	installResults []installer.Result
	installing     bool
	installErrIdx  int
	installCh      <-chan tea.Msg

	recoverableErr error
	recoveryChoice int // cursor within the recovery-choice list

	fatalErr error

	statusMsg string

	// generation counters implement the exclusive-worker pattern: each
	// kind of deferred work has its own monotonically increasing
	// counter; a completion message whose gen doesn't match the current
	// counter is stale and is dropped in Update.
	searchGen  int
	previewGen int
	installGen int

	quitting bool
}

// NewModel builds the initial browser Model from deps and all resources
// already loaded from the catalog.
func NewModel(deps Deps, all []*model.Resource, noColor bool) Model {
	deps.Index.Rebuild(all)

	sb := textinput.New()
	sb.Placeholder = "search..."
	sb.CharLimit = 256

	m := Model{
		deps:      deps,
		styles:    NewStyles(noColor),
		focus:     FocusList,
		all:            all,
		selected:       make(map[string]bool),
		sortField:      SortName,
		sortDir:        Asc,
		sortDirByField: make(map[SortField]Direction),
		searchBox:      sb,
	}
	m.visible = m.deps.Index.Search("", search.ModeSmart, len(all)+1, 0)
	m.applySort()
	return m
}

// Init starts the model with no pending command; the browser's data is
// already loaded by the time NewModel is constructed.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) currentKey(r *model.Resource) string { return r.Key() }

func (m *Model) applySort() {
	applySort(m.visible, m.sortField, m.sortDir)
	if m.cursor >= len(m.visible) {
		m.cursor = 0
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
		}
	}
}

func (m Model) selectedResources() []*model.Resource {
	var out []*model.Resource
	for _, h := range m.visible {
		if m.selected[h.Resource.Key()] {
			out = append(out, h.Resource)
		}
	}
	return out
}
