package waitlist

import (
	"slices"
)

// RecomputePositions rewrites position for every active entry. Entries are
// grouped by preferred date and ordered by priority (urgent first) then by
// creation time. Inactive entries keep whatever position they had.
func RecomputePositions(entries []*Entry) {
	byDate := make(map[Date][]*Entry)
	for _, e := range entries {
		if !e.IsActive() {
			continue
		}
		byDate[e.details.PreferredDate] = append(byDate[e.details.PreferredDate], e)
	}

	for _, group := range byDate {
		slices.SortStableFunc(group, compareQueueOrder)
		for i, e := range group {
			e.position = i + 1
		}
	}
}

func compareQueueOrder(a, b *Entry) int {
	if a.priority.Rank() != b.priority.Rank() {
		return b.priority.Rank() - a.priority.Rank()
	}
	return a.createdAt.Compare(b.createdAt)
}
