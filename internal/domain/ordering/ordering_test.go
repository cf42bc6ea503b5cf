package ordering

import (
	"math/rand"
	"testing"

	"contractor_site/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestMove(t *testing.T) {
	ids := newIDs(4)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	tests := []struct {
		name    string
		dragged uuid.UUID
		target  uuid.UUID
		want    []uuid.UUID
	}{
		{name: "move down", dragged: a, target: c, want: []uuid.UUID{b, c, a, d}},
		{name: "move up", dragged: d, target: b, want: []uuid.UUID{a, d, b, c}},
		{name: "to last", dragged: a, target: d, want: []uuid.UUID{b, c, d, a}},
		{name: "to first", dragged: c, target: a, want: []uuid.UUID{c, a, b, d}},
		{name: "adjacent swap", dragged: b, target: c, want: []uuid.UUID{a, c, b, d}},
		{name: "onto itself", dragged: b, target: b, want: []uuid.UUID{a, b, c, d}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Move(ids, tt.dragged, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []uuid.UUID{a, b, c, d}, ids, "input must not be mutated")
		})
	}
}

func TestMove_UnknownID(t *testing.T) {
	ids := newIDs(3)

	_, err := Move(ids, uuid.New(), ids[0])
	assert.ErrorIs(t, err, ErrUnknownID)

	_, err = Move(ids, ids[0], uuid.New())
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestRenumber(t *testing.T) {
	ids := newIDs(3)

	updates := Renumber(ids)

	require.Len(t, updates, 3)
	for i, u := range updates {
		assert.Equal(t, ids[i], u.ID)
		assert.Equal(t, i, u.DisplayOrder)
	}
}

func TestRepeatedMovesMatchPersistedOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := newIDs(8)
	persisted := make(map[uuid.UUID]int)

	current := ids
	for i := 0; i < 200; i++ {
		dragged := current[rng.Intn(len(current))]
		target := current[rng.Intn(len(current))]

		next, err := Move(current, dragged, target)
		require.NoError(t, err)
		require.True(t, SameSet(current, next))

		for _, u := range Renumber(next) {
			persisted[u.ID] = u.DisplayOrder
		}
		current = next
	}

	projects := make([]models.GalleryProject, 0, len(ids))
	for _, id := range ids {
		projects = append(projects, models.GalleryProject{ID: id, DisplayOrder: persisted[id]})
	}
	models.SortProjects(projects)

	assert.Equal(t, current, IDs(projects))
}

func TestArrange(t *testing.T) {
	ids := newIDs(3)
	projects := []models.GalleryProject{
		{ID: ids[0], Title: "a", DisplayOrder: 0},
		{ID: ids[1], Title: "b", DisplayOrder: 1},
		{ID: ids[2], Title: "c", DisplayOrder: 2},
	}

	got := Arrange(projects, []uuid.UUID{ids[2], ids[0], ids[1]})

	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].Title)
	assert.Equal(t, 0, got[0].DisplayOrder)
	assert.Equal(t, "b", got[2].Title)
	assert.Equal(t, 2, got[2].DisplayOrder)
}

func TestSameSet(t *testing.T) {
	ids := newIDs(3)

	assert.True(t, SameSet(ids, []uuid.UUID{ids[2], ids[1], ids[0]}))
	assert.False(t, SameSet(ids, ids[:2]))
	assert.False(t, SameSet(ids, []uuid.UUID{ids[0], ids[0], ids[1]}))
}
