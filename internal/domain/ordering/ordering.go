// Package ordering implements drag-to-reorder for display_order collections.
package ordering

import (
	"errors"
	"fmt"

	"contractor_site/internal/domain/models"

	"github.com/google/uuid"
)

var ErrUnknownID = errors.New("id is not in the collection")

// Move removes draggedID from ids and reinserts it at the index targetID
// occupied before the move. Dragging an item onto itself returns a copy of ids.
func Move(ids []uuid.UUID, draggedID, targetID uuid.UUID) ([]uuid.UUID, error) {
	from, to := -1, -1
	for i, id := range ids {
		if id == draggedID {
			from = i
		}
		if id == targetID {
			to = i
		}
	}
	if from < 0 {
		return nil, fmt.Errorf("dragged %s: %w", draggedID, ErrUnknownID)
	}
	if to < 0 {
		return nil, fmt.Errorf("target %s: %w", targetID, ErrUnknownID)
	}

	out := make([]uuid.UUID, 0, len(ids))
	out = append(out, ids...)
	if from == to {
		return out, nil
	}

	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]uuid.UUID{moved}, out[to:]...)...)

	return out, nil
}

// Renumber assigns every id its index as display_order.
func Renumber(ids []uuid.UUID) []models.OrderUpdate {
	updates := make([]models.OrderUpdate, len(ids))
	for i, id := range ids {
		updates[i] = models.OrderUpdate{ID: id, DisplayOrder: i}
	}
	return updates
}

// SameSet reports whether a and b hold the same ids, ignoring order.
func SameSet(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uuid.UUID]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}

// IDs extracts project ids in slice order.
func IDs(projects []models.GalleryProject) []uuid.UUID {
	ids := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}

// Arrange returns projects in the order given by ids with DisplayOrder
// rewritten to each project's new index.
func Arrange(projects []models.GalleryProject, ids []uuid.UUID) []models.GalleryProject {
	byID := make(map[uuid.UUID]models.GalleryProject, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	out := make([]models.GalleryProject, 0, len(ids))
	for i, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		p.DisplayOrder = i
		out = append(out, p)
	}
	return out
}
