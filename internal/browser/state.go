// Package browser implements the interactive browser state machine as a
// Bubble Tea model: a single reactive struct, synchronous state updates on
// every message, and exclusive background workers (one in-flight task per
// deferred-work kind) modeled as monotonically increasing generation
// counters — a completion message carrying a stale generation is dropped,
// which is the idiomatic Bubble Tea analogue of "cancel the in-flight
// task and supersede it."
package browser

import "github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"

// Focus is the orthogonal UI mode.
type Focus string

const (
	FocusList             Focus = "list"
	FocusSearchInput      Focus = "search_input"
	FocusHelpOverlay      Focus = "help_overlay"
	FocusConfirmation     Focus = "confirmation_dialog"
	FocusErrorModal       Focus = "error_modal"
)

// SortField is one of the three sortable fields.
type SortField string

const (
	SortName    SortField = "name"
	SortType    SortField = "type"
	SortUpdated SortField = "updated"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// nextSortField cycles name -> type -> updated -> name.
func nextSortField(f SortField) SortField {
	switch f {
	case SortName:
		return SortType
	case SortType:
		return SortUpdated
	default:
		return SortName
	}
}

// defaultDirection returns the field's default direction the first time it
// is selected in a session.
func defaultDirection(f SortField) Direction {
	if f == SortUpdated {
		return Desc
	}
	return Asc
}

// RecoveryChoice is offered in the error modal for a recoverable error.
type RecoveryChoice string

const (
	RecoveryRetry          RecoveryChoice = "retry"
	RecoverySkip           RecoveryChoice = "skip"
	RecoveryCancelRemaining RecoveryChoice = "cancel_remaining"
	RecoveryViewDetails    RecoveryChoice = "view_details"
)

// kindFilterMatches reports whether r passes the kind filter, "" meaning "all".
func kindFilterMatches(filter model.Kind, r *model.Resource) bool {
	return filter == "" || r.Type == filter
}
