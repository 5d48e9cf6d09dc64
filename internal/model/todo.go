package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Todo is a single item on a user's list.
// CompletedAt holds unix milliseconds and is set iff Completed is true.
type Todo struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	CompletedAt *int64    `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoPatch is a normalized partial update applied in one statement.
// A nil Text leaves the text unchanged; Completed and CompletedAt are
// always written.
type TodoPatch struct {
	Text        *string
	Completed   bool
	CompletedAt *int64
}

// NewID returns a fresh, lexically sortable identifier.
func NewID() string {
	return ulid.Make().String()
}

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
