// Every change to a member record is written to activity_logs so staff can
// trace who registered, edited or removed a member, and when.
// entity/entity_id are polymorphic, the table is shared by members and admins.
package repository

import (
	"context"

	"github.com/cradoe/memberreg/internal/models"
	"github.com/jmoiron/sqlx"
)

type ActivityRepository interface {
	CountConsecutiveFailedLoginAttempts(adminID, actionDesc string) int
	Insert(log *models.ActivityLog) (*models.ActivityLog, error)
	GetByEntity(entity, entityID string, limit int) ([]models.ActivityLog, error)
}

const (
	// ActivityLogMemberEntity is used for actions on member records and the persons table
	ActivityLogMemberEntity = "member"

	// ActivityLogAdminEntity is used for actions on staff accounts and the admins table
	ActivityLogAdminEntity = "admin"
)

// possible descriptions
const (
	ActivityLogMemberRegisteredDescription = "Member registered"
	ActivityLogMemberUpdatedDescription    = "Member updated"
	ActivityLogMemberDeletedDescription    = "Member deleted"

	ActivityLogAdminLoginDescription       = "Admin login"
	ActivityLogAdminFailedLoginDescription = "Failed login"
	ActivityLogAdminLockedDescription      = "Admin account locked"
	ActivityLogAdminCreatedDescription     = "Admin created"
)

type ActivityRepositoryImpl struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (repo *ActivityRepositoryImpl) Insert(log *models.ActivityLog) (*models.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.ActivityLog

	query := `
		INSERT INTO activity_logs (actor_id, entity, entity_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, actor_id, entity, entity_id, description, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		log.ActorID,
		log.Entity,
		log.EntityId,
		log.Description,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// GetByEntity returns the most recent entries for one entity, newest first.
func (repo *ActivityRepositoryImpl) GetByEntity(entity, entityID string, limit int) ([]models.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	logs := []models.ActivityLog{}

	query := `
		SELECT id, actor_id, entity, entity_id, description, created_at
		FROM activity_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	err := repo.db.SelectContext(ctx, &logs, query, entity, entityID, limit)
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// CountConsecutiveFailedLoginAttempts counts failed sign ins for an admin since their last
// successful one, looking at the three most recent login entries.
// Used to lock an admin account after three failures in a row.
func (repo *ActivityRepositoryImpl) CountConsecutiveFailedLoginAttempts(adminID, actionDesc string) int {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var descriptions []string

	query := `
		SELECT description
		FROM activity_logs
		WHERE entity = $1 AND entity_id = $2 AND description IN ($3, $4)
		ORDER BY created_at DESC, id DESC
		LIMIT 3`

	err := repo.db.SelectContext(ctx, &descriptions, query,
		ActivityLogAdminEntity, adminID, actionDesc, ActivityLogAdminLoginDescription)
	if err != nil {
		return 0
	}

	count := 0
	for _, desc := range descriptions {
		if desc != actionDesc {
			break
		}
		count++
	}

	return count
}
