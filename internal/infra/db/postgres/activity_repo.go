package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/report-vault/internal/domain/activity"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Record inserts one audit entry
func (r *ActivityRepository) Record(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO report_activity
  (username, action, detail, created_at)
VALUES ($1,$2,$3,$4)
`
	username := stringOrDash(e.Username)
	action := stringOrDash(e.Action)
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, username, action, e.Detail, created)
	return err
}

// Latest returns recent entries, optionally restricted to one username
func (r *ActivityRepository) Latest(ctx context.Context, username string, limit int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	q := `
SELECT id, username, action, detail, created_at
FROM report_activity`
	args := []any{}
	if username != "" {
		q += "\nWHERE username = $1"
		args = append(args, username)
	}
	q += "\nORDER BY created_at DESC, id DESC"
	if username != "" {
		q += "\nLIMIT $2;"
	} else {
		q += "\nLIMIT $1;"
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var created time.Time
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.Detail, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = created
		out = append(out, &e)
	}
	return out, rows.Err()
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
