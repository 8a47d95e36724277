package db

import "time"

// Check statuses.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

type Check struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Text      string    `db:"text"`
	Status    string    `db:"status"`
	Attempts  int       `db:"attempts"`
	ObjectRef *string   `db:"object_ref"`
	Results   []byte    `db:"results"`
	Report    []byte    `db:"report"`
	Error     *string   `db:"error"`
}
