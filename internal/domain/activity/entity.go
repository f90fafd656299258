package activity

import "time"

// Entry represents one persisted audit trail record
type Entry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"` // login | login_failed | logout | save | delete | repair | other
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
