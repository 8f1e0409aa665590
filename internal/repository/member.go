package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cradoe/memberreg/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDuplicateNationalID = errors.New("a member with this national id is already registered")
	ErrUnknownDependant    = errors.New("dependant does not belong to this member")
)

var tracer = otel.Tracer("github.com/cradoe/memberreg/internal/repository")

type MemberRepository interface {
	GetAll(filter models.MemberFilter) ([]models.Person, int, error)
	GetOne(id int64) (*models.Person, bool, error)
	CheckIfNationalIDExist(nationalID string, excludeID int64) (bool, error)
	Insert(person *models.Person) (*models.Person, error)
	Update(id int64, person *models.Person) (*models.MemberUpdate, bool, error)
	Delete(id int64) (bool, error)
}

const personColumns = `
	id, national_id, id_type, first_name, middle_name, last_name, gender, birthday,
	spouse_fullname, spouse_birthday, email, telephone, residence,
	underlying, condition, declaration, document_url, created_at, updated_at`

// pg unique_violation on persons.national_id
const nationalIDConstraint = "persons_national_id_key"

type MemberRepositoryImpl struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &MemberRepositoryImpl{db: db}
}

// GetAll returns one page of members ordered by last name, plus the number of members matching the search.
// The search matches first, middle and last name and email, case-insensitively.
func (repo *MemberRepositoryImpl) GetAll(filter models.MemberFilter) ([]models.Person, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	search := escapeLike(strings.TrimSpace(filter.Search))

	where := `
		WHERE ($1 = ''
			OR first_name ILIKE '%' || $1 || '%'
			OR middle_name ILIKE '%' || $1 || '%'
			OR last_name ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%')`

	// LIMIT NULL means no limit in postgres
	limit := sql.NullInt64{Int64: int64(filter.Limit), Valid: filter.Limit > 0}

	members := []models.Person{}
	query := `SELECT ` + personColumns + ` FROM persons ` + where + `
		ORDER BY last_name ASC, first_name ASC, id ASC
		LIMIT $2 OFFSET $3`

	err := repo.db.SelectContext(ctx, &members, query, search, limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = repo.db.GetContext(ctx, &total, `SELECT count(*) FROM persons `+where, search)
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// GetOne loads a member with their children and parents.
func (repo *MemberRepositoryImpl) GetOne(id int64) (*models.Person, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var person models.Person

	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1`

	err := repo.db.GetContext(ctx, &person, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	// children and parents are independent lookups, fetch them side by side
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		children, err := selectChildren(gctx, repo.db, id)
		person.Children = children
		return err
	})

	g.Go(func() error {
		parents, err := selectParents(gctx, repo.db, id)
		person.Parents = parents
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	return &person, true, nil
}

func (repo *MemberRepositoryImpl) CheckIfNationalIDExist(nationalID string, excludeID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM persons WHERE national_id = $1 AND id <> $2)`

	err := repo.db.GetContext(ctx, &exists, query, nationalID, excludeID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Insert registers a member together with their children and parents.
// Either everything is stored or nothing is.
func (repo *MemberRepositoryImpl) Insert(person *models.Person) (created *models.Person, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "MemberRepository.Insert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	var id int64

	query := `
		INSERT INTO persons (
			national_id, id_type, first_name, middle_name, last_name, gender, birthday,
			spouse_fullname, spouse_birthday, email, telephone, residence,
			underlying, condition, declaration, document_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	err = tx.GetContext(ctx, &id, query,
		person.NationalID,
		person.IDType,
		person.FirstName,
		person.MiddleName,
		person.LastName,
		person.Gender,
		person.Birthday,
		person.SpouseFullname,
		person.SpouseBirthday,
		person.Email,
		person.Telephone,
		person.Residence,
		person.Underlying,
		person.Condition,
		person.Declaration,
		person.DocumentURL,
	)
	if err != nil {
		if isUniqueViolation(err, nationalIDConstraint) {
			return nil, ErrDuplicateNationalID
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("member.id", id),
		attribute.Int("member.children", len(person.Children)),
		attribute.Int("member.parents", len(person.Parents)),
	)

	if err = insertChildren(ctx, tx, id, person.Children); err != nil {
		return nil, fmt.Errorf("insert children: %w", err)
	}

	if err = insertParents(ctx, tx, id, person.Parents); err != nil {
		return nil, fmt.Errorf("insert parents: %w", err)
	}

	created, err = loadPerson(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return created, nil
}

// Update overwrites the member's own fields and reconciles their children and parents
// against the submitted lists: rows without an id are created, rows with an id are
// overwritten, stored rows left out of the submission are deleted.
// All of it happens in one transaction. found is false when the member does not exist.
func (repo *MemberRepositoryImpl) Update(id int64, person *models.Person) (result *models.MemberUpdate, found bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "MemberRepository.Update", trace.WithAttributes(attribute.Int64("member.id", id)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}

	defer tx.Rollback()

	// lock the member row so concurrent edits of the same member queue up
	var lockedID int64
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM persons WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	query := `
		UPDATE persons
		SET national_id = $1,
		    id_type = $2,
		    first_name = $3,
		    middle_name = $4,
		    last_name = $5,
		    gender = $6,
		    birthday = $7,
		    spouse_fullname = $8,
		    spouse_birthday = $9,
		    email = $10,
		    telephone = $11,
		    residence = $12,
		    underlying = $13,
		    condition = $14,
		    declaration = $15,
		    document_url = $16,
		    updated_at = NOW()
		WHERE id = $17`

	_, err = tx.ExecContext(ctx, query,
		person.NationalID,
		person.IDType,
		person.FirstName,
		person.MiddleName,
		person.LastName,
		person.Gender,
		person.Birthday,
		person.SpouseFullname,
		person.SpouseBirthday,
		person.Email,
		person.Telephone,
		person.Residence,
		person.Underlying,
		person.Condition,
		person.Declaration,
		person.DocumentURL,
		id,
	)
	if err != nil {
		if isUniqueViolation(err, nationalIDConstraint) {
			return nil, true, ErrDuplicateNationalID
		}
		return nil, true, err
	}

	childPlan, err := reconcileChildren(ctx, tx, id, person.Children)
	if err != nil {
		return nil, true, err
	}

	parentPlan, err := reconcileParents(ctx, tx, id, person.Parents)
	if err != nil {
		return nil, true, err
	}

	span.SetAttributes(
		attribute.Int("children.created", len(childPlan.Create)),
		attribute.Int("children.updated", len(childPlan.Update)),
		attribute.Int("children.deleted", len(childPlan.Delete)),
		attribute.Int("parents.created", len(parentPlan.Create)),
		attribute.Int("parents.updated", len(parentPlan.Update)),
		attribute.Int("parents.deleted", len(parentPlan.Delete)),
	)

	updated, err := loadPerson(ctx, tx, id)
	if err != nil {
		return nil, true, err
	}

	if err = tx.Commit(); err != nil {
		return nil, true, err
	}

	return &models.MemberUpdate{
		Member: updated,
		Children: models.DependantChanges{
			Created: len(childPlan.Create),
			Updated: len(childPlan.Update),
			Deleted: len(childPlan.Delete),
		},
		Parents: models.DependantChanges{
			Created: len(parentPlan.Create),
			Updated: len(parentPlan.Update),
			Deleted: len(parentPlan.Delete),
		},
	}, true, nil
}

// Delete removes a member. Their children and parents go with them (ON DELETE CASCADE).
func (repo *MemberRepositoryImpl) Delete(id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result, err := repo.db.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func loadPerson(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Person, error) {
	var person models.Person

	err := tx.GetContext(ctx, &person, `SELECT `+personColumns+` FROM persons WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	person.Children, err = selectChildren(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	person.Parents, err = selectParents(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	return &person, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
