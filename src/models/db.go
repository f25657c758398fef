package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Goal struct {
	Id          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	IsPublic    bool      `db:"is_public"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// task_statuses.status values
const (
	StatusStarted = "started"
	StatusDone    = "done"
)

// GoalWithCompletions is a goal annotated with the number of done
// task statuses for its tasks. The count only lives for one request.
type GoalWithCompletions struct {
	Goal
	CompletedTasks int `db:"completed_tasks"`
}

// OtherStat is an extra labelled number shown under the goal table
type OtherStat struct {
	Name string
	Stat int
}
