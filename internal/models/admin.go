package models

import "time"

type Admin struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}
