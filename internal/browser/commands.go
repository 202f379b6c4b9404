package browser

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/installer"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/search"
)

// searchCmd runs query against the index off the UI goroutine and tags the
// result with gen so a superseded search is dropped on arrival.
func searchCmd(idx *search.Index, query string, kindFilter model.Kind, limit int, gen int) tea.Cmd {
	return func() tea.Msg {
		hits := idx.Search(query, search.ModeSmart, limit, 0)
		if kindFilter != "" {
			filtered := hits[:0:0]
			for _, h := range hits {
				if kindFilterMatches(kindFilter, h.Resource) {
					filtered = append(filtered, h)
				}
			}
			hits = filtered
		}
		return searchResultMsg{gen: gen, hits: hits}
	}
}

// previewCmd builds the preview text for r: its derived summary.
func previewCmd(r *model.Resource, gen int) tea.Cmd {
	return func() tea.Msg {
		return previewLoadedMsg{gen: gen, id: r.Key(), content: r.DeriveSummary()}
	}
}

// resolverLike is the subset of *resolver.Resolver the browser needs,
// narrowed for testability.
type resolverLike interface {
	Resolve(target *model.Resource) (*model.InstallPlan, error)
}

// planCmd resolves the install plan for target in the background for the
// confirmation dialog.
func planCmd(res resolverLike, target *model.Resource, gen int) tea.Cmd {
	return func() tea.Msg {
		plan, err := res.Resolve(target)
		return planReadyMsg{gen: gen, plan: plan, err: err}
	}
}

// installerLike is the subset of *installer.Installer the browser needs.
type installerLike interface {
	Install(ctx context.Context, plan *model.InstallPlan, opts installer.Options, progress installer.ProgressFunc) ([]installer.Result, error)
}

// startInstallCmd launches the install in a goroutine that feeds ch with
// progress events and, finally, the done message, all tagged gen so a
// cancelled/superseded install's stragglers are ignored on arrival. It
// returns the first message off ch; waitInstallCmd keeps draining it.
func startInstallCmd(in installerLike, plan *model.InstallPlan, opts installer.Options, gen int) (tea.Cmd, <-chan tea.Msg) {
	ch := make(chan tea.Msg, 16)
	go func() {
		results, err := in.Install(context.Background(), plan, opts, func(ev installer.ProgressEvent) {
			ch <- installProgressMsg{gen: gen, event: ev}
		})
		ch <- installDoneMsg{gen: gen, results: results, err: err}
		close(ch)
	}()
	return waitInstallCmd(ch), ch
}

// waitInstallCmd receives the next message off ch, or nil once it is
// closed and drained. Update re-issues this after every installProgressMsg
// to keep draining the channel (the standard Bubble Tea streaming idiom).
func waitInstallCmd(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// announceCmd delivers an accessibility announcement as a tea.Msg; Update
// passes it to the sink when it arrives, after the state change it
// describes has been applied.
func announceCmd(text string) tea.Cmd {
	return func() tea.Msg { return announceMsg{text: text} }
}
