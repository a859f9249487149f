package store

import (
	"sort"
	"strings"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
)

// SortNewestFirst orders diagrams by UpdatedAt then ID, both descending.
func SortNewestFirst(ds []domain.Diagram) {
	sort.SliceStable(ds, func(i, j int) bool {
		if !ds[i].UpdatedAt.Equal(ds[j].UpdatedAt) {
			return ds[i].UpdatedAt.After(ds[j].UpdatedAt)
		}
		return ds[i].ID > ds[j].ID
	})
}

// FilterPage applies a ListQuery in memory. It returns the page and the
// number of diagrams matching the query.
func FilterPage(all []domain.Diagram, q ListQuery) ([]domain.Diagram, int) {
	matched := make([]domain.Diagram, 0, len(all))
	for _, d := range all {
		if q.Query == "" || strings.Contains(domain.BuildSearchVector(d.Title, d.Content), q.Query) {
			matched = append(matched, d)
		}
	}
	SortNewestFirst(matched)

	total := len(matched)
	if q.Offset >= total {
		return []domain.Diagram{}, total
	}
	end := total
	if q.Limit > 0 && q.Offset+q.Limit < total {
		end = q.Offset + q.Limit
	}
	return matched[q.Offset:end], total
}
