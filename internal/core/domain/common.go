package domain

import "time"

// AuditFields holds standard bookkeeping timestamps for domain entities.
// UpdatedAt changes on every mutation.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
