package activity

import "context"

// Repository defines persistence for audit entries
type Repository interface {
	Record(ctx context.Context, e *Entry) error
	Latest(ctx context.Context, username string, limit int) ([]*Entry, error)
}
