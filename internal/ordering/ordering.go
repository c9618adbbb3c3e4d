// internal/ordering/ordering.go

// Package ordering maintains dense, zero-based sort orders for sibling
// groups (categories, products within a category, images within a product).
// A drag reorder is always a single-element move; after any committed
// insert, delete, or reorder the group's sort keys are exactly 0..N-1.
package ordering

import "github.com/google/uuid"

// Update pairs an entity id with the sort order it should be persisted at.
type Update struct {
	ID        uuid.UUID
	SortOrder int
}

// Move returns a copy of items with the element at index from moved to
// index to; everything in between shifts by one slot. Out-of-range indexes
// and from == to return the input unchanged.
func Move[T any](items []T, from, to int) []T {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return items
	}

	next := make([]T, 0, n)
	next = append(next, items...)

	moved := next[from]
	if from < to {
		copy(next[from:to], next[from+1:to+1])
	} else {
		copy(next[to+1:from+1], next[to:from])
	}
	next[to] = moved

	return next
}

// Changed compares the permuted id list against the previous sort orders
// and returns one Update per element whose position changed, in ascending
// index order. Ids missing from prev are treated as changed.
func Changed(orderedIDs []uuid.UUID, prev map[uuid.UUID]int) []Update {
	var updates []Update
	for idx, id := range orderedIDs {
		old, ok := prev[id]
		if !ok || old != idx {
			updates = append(updates, Update{ID: id, SortOrder: idx})
		}
	}
	return updates
}

// Renumber returns dense updates for every id, 0..N-1 by position. Used
// after a sibling delete to close the gap.
func Renumber(orderedIDs []uuid.UUID) []Update {
	updates := make([]Update, len(orderedIDs))
	for idx, id := range orderedIDs {
		updates[idx] = Update{ID: id, SortOrder: idx}
	}
	return updates
}

// NextSortOrder returns the sort order for a new sibling: one past the
// current maximum. No gap-filling happens on insert.
func NextSortOrder(existing []int) int {
	max := -1
	for _, v := range existing {
		if v > max {
			max = v
		}
	}
	return max + 1
}

// SameMembers reports whether the permutation covers exactly the sibling
// set, no more and no less. Reorder requests with stale or foreign ids are
// rejected before any write.
func SameMembers(orderedIDs []uuid.UUID, siblings map[uuid.UUID]int) bool {
	if len(orderedIDs) != len(siblings) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return false
		}
		if _, ok := siblings[id]; !ok {
			return false
		}
		seen[id] = true
	}
	return true
}
