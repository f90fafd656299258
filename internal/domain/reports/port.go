package reports

import "context"

// Backend port (interface untuk persistence)
//
// Save is an upsert keyed by id, last writer wins. List returns newest-first
// by timestamp; limit <= 0 means no truncation. Get returns ErrNotFound for a
// missing id. A backend that lost its connection returns ErrUnavailable from
// every operation instead of blocking or panicking.
type Backend interface {
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, id ReportID) (*Report, error)
	List(ctx context.Context, f Filter, limit int) ([]*Report, error)
	Delete(ctx context.Context, id ReportID) (bool, error)
}

// ArchiveStore port (interface untuk mirror ke object storage)
type ArchiveStore interface {
	Archive(ctx context.Context, id ReportID, data []byte) (string, error)
}
