package browser

import (
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/installer"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// searchResultMsg carries the result of a background search. gen ties it
// to the generation that was in flight when the search was dispatched;
// Update discards it if a newer search has since superseded it.
type searchResultMsg struct {
	gen  int
	hits []model.SearchHit
}

// previewLoadedMsg carries a rendered resource preview.
type previewLoadedMsg struct {
	gen     int
	id      string
	content string
}

// planReadyMsg carries a combined install plan built for the confirmation
// dialog.
type planReadyMsg struct {
	gen  int
	plan *model.InstallPlan
	err  error
}

// installProgressMsg streams per-resource progress during an install.
type installProgressMsg struct {
	gen   int
	event installer.ProgressEvent
}

// installDoneMsg signals the install flow has finished (success or error).
type installDoneMsg struct {
	gen     int
	results []installer.Result
	err     error
}

// announceMsg carries an accessibility announcement; Update hands its text
// to the sink and changes no other state.
type announceMsg struct{ text string }
