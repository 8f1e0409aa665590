package models

import "time"

// ActivityLog records who did what to which entity.
// ActorID is empty for actions taken by the member themselves (self-registration).
type ActivityLog struct {
	ID          int64     `db:"id"`
	ActorID     string    `db:"actor_id"`
	Entity      string    `db:"entity"`
	EntityId    string    `db:"entity_id"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
