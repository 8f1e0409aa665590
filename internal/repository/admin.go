package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cradoe/memberreg/internal/models"
	"github.com/jmoiron/sqlx"
)

var ErrDuplicateAdminEmail = errors.New("an admin with this email already exists")

type AdminRepository interface {
	Insert(admin *models.Admin) (int64, error)
	GetOne(id int64) (*models.Admin, bool, error)
	GetByEmail(email string) (*models.Admin, bool, error)
	Lock(id int64) error
}

const (
	// AdminAccountActiveStatus is the default status, the admin can sign in and manage members
	AdminAccountActiveStatus = "active"

	// AdminAccountLockedStatus is set after repeated failed sign in attempts.
	// A locked admin cannot sign in until another admin unlocks the account.
	AdminAccountLockedStatus = "locked"
)

const adminEmailConstraint = "admins_email_key"

type AdminRepositoryImpl struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

func (repo *AdminRepositoryImpl) Insert(admin *models.Admin) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id int64
	query := `
		INSERT INTO admins (name, email, hashed_password)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query, admin.Name, admin.Email, admin.HashedPassword)
	if err != nil {
		if isUniqueViolation(err, adminEmailConstraint) {
			return 0, ErrDuplicateAdminEmail
		}
		return 0, err
	}

	return id, nil
}

func (repo *AdminRepositoryImpl) GetOne(id int64) (*models.Admin, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var admin models.Admin

	query := `SELECT id, name, email, hashed_password, status, created_at FROM admins WHERE id = $1`

	err := repo.db.GetContext(ctx, &admin, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &admin, true, nil
}

func (repo *AdminRepositoryImpl) GetByEmail(email string) (*models.Admin, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var admin models.Admin

	query := `SELECT id, name, email, hashed_password, status, created_at FROM admins WHERE email = $1`

	err := repo.db.GetContext(ctx, &admin, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &admin, true, nil
}

func (repo *AdminRepositoryImpl) Lock(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE admins SET status = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, AdminAccountLockedStatus, id)
	return err
}
