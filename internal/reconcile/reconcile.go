// Package reconcile works out which dependant rows to create, update and delete
// when a member is saved with the full list of their dependants.
//
// Rows are matched by id. A submitted row without an id is new, a submitted row
// with an id replaces the stored row with that id, and a stored row whose id is
// missing from the submission is removed.
package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownID is returned when a submitted row carries an id the owner does not have.
	ErrUnknownID = errors.New("reconcile: id does not belong to this record")

	// ErrDuplicateID is returned when the same id is submitted more than once.
	ErrDuplicateID = errors.New("reconcile: id submitted more than once")
)

type Plan[T any] struct {
	Create []T
	Update []T
	Delete []int64
}

func (p Plan[T]) IsEmpty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Diff compares the ids currently stored for an owner against the submitted rows.
// idOf returns zero for rows that have not been stored yet.
// Create and Update keep submission order; Delete keeps the order of existing.
func Diff[T any](existing []int64, submitted []T, idOf func(T) int64) (Plan[T], error) {
	var plan Plan[T]

	stored := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		stored[id] = struct{}{}
	}

	kept := make(map[int64]struct{}, len(submitted))
	for _, row := range submitted {
		id := idOf(row)
		if id == 0 {
			plan.Create = append(plan.Create, row)
			continue
		}

		if _, ok := stored[id]; !ok {
			return Plan[T]{}, fmt.Errorf("%w: %d", ErrUnknownID, id)
		}
		if _, seen := kept[id]; seen {
			return Plan[T]{}, fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}

		kept[id] = struct{}{}
		plan.Update = append(plan.Update, row)
	}

	for _, id := range existing {
		if _, ok := kept[id]; !ok {
			plan.Delete = append(plan.Delete, id)
		}
	}

	return plan, nil
}
