package browser

import (
	"sort"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// applySort orders hits in place by field/dir. It is a stable sort: hits
// that tie on field keep whatever relative order they already had coming
// in, so re-sorting by a second field never disturbs the order already
// established among ties of the first.
func applySort(hits []model.SearchHit, field SortField, dir Direction) {
	primaryLess := func(a, b *model.Resource) (lt, eq bool) {
		switch field {
		case SortType:
			return a.Type < b.Type, a.Type == b.Type
		case SortUpdated:
			return a.UpdatedAt < b.UpdatedAt, a.UpdatedAt == b.UpdatedAt
		default: // SortName
			return a.Name < b.Name, a.Name == b.Name
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i].Resource, hits[j].Resource
		lt, eq := primaryLess(a, b)
		if eq {
			// Neither i<j nor j<i: SliceStable leaves tied elements in
			// their incoming relative order.
			return false
		}
		if dir == Desc {
			return !lt
		}
		return lt
	})
}
