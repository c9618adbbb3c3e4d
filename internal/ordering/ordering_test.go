// internal/ordering/ordering_test.go
package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMoveForward(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	next := Move(items, 1, 3)

	assert.Equal(t, []string{"a", "c", "d", "b", "e"}, next)
	// Input is untouched
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items)
}

func TestMoveBackward(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	next := Move(items, 3, 0)

	assert.Equal(t, []string{"d", "a", "b", "c"}, next[:4])
	assert.Equal(t, "e", next[4])
}

func TestMoveNoop(t *testing.T) {
	items := []string{"a", "b", "c"}

	assert.Equal(t, items, Move(items, 1, 1))
	assert.Equal(t, items, Move(items, -1, 2))
	assert.Equal(t, items, Move(items, 0, 3))
}

func TestMoveSingleElement(t *testing.T) {
	items := []string{"only"}
	assert.Equal(t, items, Move(items, 0, 0))
}

func TestChangedReturnsOnlyMovedElements(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	prev := map[uuid.UUID]int{a: 0, b: 1, c: 2, d: 3}

	// Move b from index 1 to index 3: a stays put, b/c/d shift.
	ordered := []uuid.UUID{a, c, d, b}

	updates := Changed(ordered, prev)

	assert.Equal(t, []Update{
		{ID: c, SortOrder: 1},
		{ID: d, SortOrder: 2},
		{ID: b, SortOrder: 3},
	}, updates)
}

func TestChangedIdenticalOrderIsEmpty(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	prev := map[uuid.UUID]int{a: 0, b: 1}

	assert.Empty(t, Changed([]uuid.UUID{a, b}, prev))
}

func TestChangedUnknownIDIsUpdated(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	prev := map[uuid.UUID]int{a: 0}

	updates := Changed([]uuid.UUID{a, b}, prev)

	assert.Equal(t, []Update{{ID: b, SortOrder: 1}}, updates)
}

func TestRenumberIsDense(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	updates := Renumber(ids)

	for idx, u := range updates {
		assert.Equal(t, ids[idx], u.ID)
		assert.Equal(t, idx, u.SortOrder)
	}
}

func TestNextSortOrder(t *testing.T) {
	assert.Equal(t, 0, NextSortOrder(nil))
	assert.Equal(t, 3, NextSortOrder([]int{0, 1, 2}))
	// Gaps are not filled, inserts always go one past the max.
	assert.Equal(t, 8, NextSortOrder([]int{0, 3, 7}))
}

func TestSameMembers(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	siblings := map[uuid.UUID]int{a: 0, b: 1, c: 2}

	assert.True(t, SameMembers([]uuid.UUID{c, a, b}, siblings))
	assert.False(t, SameMembers([]uuid.UUID{a, b}, siblings), "missing member")
	assert.False(t, SameMembers([]uuid.UUID{a, b, b}, siblings), "duplicate")
	assert.False(t, SameMembers([]uuid.UUID{a, b, uuid.New()}, siblings), "foreign id")
}

func TestMoveThenRenumberStaysDense(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	permuted := Move(ids, 4, 1)
	permuted = Move(permuted, 0, 3)

	updates := Renumber(permuted)
	seen := map[int]bool{}
	for _, u := range updates {
		seen[u.SortOrder] = true
	}
	for i := 0; i < len(ids); i++ {
		assert.True(t, seen[i], "sort order %d missing", i)
	}
}
