package resolver

import (
	"sort"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// ReverseDependents returns every resource in all whose required or
// recommended list references id (either kind), ordered by id ascending.
// Used by `deps --reverse`.
func ReverseDependents(id string, all []*model.Resource) []*model.Resource {
	var out []*model.Resource
	for _, r := range all {
		if referencesID(r.Deps.Required, id) || referencesID(r.Deps.Recommended, id) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func referencesID(refs []model.DependencyRef, id string) bool {
	for _, ref := range refs {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// Depth returns the longest required-dependency chain length reachable
// from target, computed over a fresh resolve (0 for a leaf with no
// required deps).
func (r *Resolver) Depth(target *model.Resource) (int, error) {
	plan, err := r.Resolve(target)
	if err != nil {
		return 0, err
	}
	return len(plan.ToInstall) - 1, nil
}
