package repository

import (
	"context"
	"fmt"

	"github.com/cradoe/memberreg/internal/models"
	"github.com/cradoe/memberreg/internal/reconcile"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Children and parents are only ever written together with their member,
// so these helpers take the member's transaction instead of opening their own.

func childID(c models.Child) int64   { return c.ID }
func parentID(p models.Parent) int64 { return p.ID }

func selectChildren(ctx context.Context, q sqlx.QueryerContext, personID int64) ([]models.Child, error) {
	children := []models.Child{}

	query := `
		SELECT id, person_id, full_name, birthday, created_at
		FROM children WHERE person_id = $1 ORDER BY id`

	err := sqlx.SelectContext(ctx, q, &children, query, personID)
	if err != nil {
		return nil, err
	}

	return children, nil
}

func selectParents(ctx context.Context, q sqlx.QueryerContext, personID int64) ([]models.Parent, error) {
	parents := []models.Parent{}

	query := `
		SELECT id, person_id, full_name, birthday, relationship, created_at
		FROM parents WHERE person_id = $1 ORDER BY id`

	err := sqlx.SelectContext(ctx, q, &parents, query, personID)
	if err != nil {
		return nil, err
	}

	return parents, nil
}

func selectDependantIDs(ctx context.Context, tx *sqlx.Tx, table string, personID int64) ([]int64, error) {
	var ids []int64

	// table is one of our own constants, never user input
	query := fmt.Sprintf(`SELECT id FROM %s WHERE person_id = $1 ORDER BY id`, table)

	err := tx.SelectContext(ctx, &ids, query, personID)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func insertChildren(ctx context.Context, tx *sqlx.Tx, personID int64, children []models.Child) error {
	query := `INSERT INTO children (person_id, full_name, birthday) VALUES ($1, $2, $3)`

	for _, child := range children {
		_, err := tx.ExecContext(ctx, query, personID, child.FullName, child.Birthday)
		if err != nil {
			return err
		}
	}

	return nil
}

func insertParents(ctx context.Context, tx *sqlx.Tx, personID int64, parents []models.Parent) error {
	query := `INSERT INTO parents (person_id, full_name, birthday, relationship) VALUES ($1, $2, $3, $4)`

	for _, parent := range parents {
		_, err := tx.ExecContext(ctx, query, personID, parent.FullName, parent.Birthday, parent.Relationship)
		if err != nil {
			return err
		}
	}

	return nil
}

func deleteDependants(ctx context.Context, tx *sqlx.Tx, table string, personID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE person_id = $1 AND id = ANY($2)`, table)

	_, err := tx.ExecContext(ctx, query, personID, pq.Array(ids))
	return err
}

// reconcileChildren applies the create/update/delete diff for one member's children.
func reconcileChildren(ctx context.Context, tx *sqlx.Tx, personID int64, submitted []models.Child) (reconcile.Plan[models.Child], error) {
	existing, err := selectDependantIDs(ctx, tx, "children", personID)
	if err != nil {
		return reconcile.Plan[models.Child]{}, err
	}

	plan, err := reconcile.Diff(existing, submitted, childID)
	if err != nil {
		return plan, fmt.Errorf("%w: child %w", ErrUnknownDependant, err)
	}

	if err := deleteDependants(ctx, tx, "children", personID, plan.Delete); err != nil {
		return plan, err
	}

	if err := insertChildren(ctx, tx, personID, plan.Create); err != nil {
		return plan, err
	}

	query := `UPDATE children SET full_name = $1, birthday = $2 WHERE id = $3 AND person_id = $4`
	for _, child := range plan.Update {
		_, err := tx.ExecContext(ctx, query, child.FullName, child.Birthday, child.ID, personID)
		if err != nil {
			return plan, err
		}
	}

	return plan, nil
}

// reconcileParents applies the create/update/delete diff for one member's parents.
func reconcileParents(ctx context.Context, tx *sqlx.Tx, personID int64, submitted []models.Parent) (reconcile.Plan[models.Parent], error) {
	existing, err := selectDependantIDs(ctx, tx, "parents", personID)
	if err != nil {
		return reconcile.Plan[models.Parent]{}, err
	}

	plan, err := reconcile.Diff(existing, submitted, parentID)
	if err != nil {
		return plan, fmt.Errorf("%w: parent %w", ErrUnknownDependant, err)
	}

	if err := deleteDependants(ctx, tx, "parents", personID, plan.Delete); err != nil {
		return plan, err
	}

	if err := insertParents(ctx, tx, personID, plan.Create); err != nil {
		return plan, err
	}

	query := `UPDATE parents SET full_name = $1, birthday = $2, relationship = $3 WHERE id = $4 AND person_id = $5`
	for _, parent := range plan.Update {
		_, err := tx.ExecContext(ctx, query, parent.FullName, parent.Birthday, parent.Relationship, parent.ID, personID)
		if err != nil {
			return plan, err
		}
	}

	return plan, nil
}
