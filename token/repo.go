package token

import "time"

// Repo stores the single current token record.
// Load returns the record with the time it was issued; a missing record is errors.ErrNotAuthenticated.
type Repo interface {
	Load() (Record, time.Time, error)
	Save(record Record) error
}
