package file

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	domain "github.com/bryanwahyu/report-vault/internal/domain/reports"
)

// ReportRepository stores one JSON file per record under Dir, filename
// derived from the record id.
type ReportRepository struct {
	dir string
}

func NewReportRepository(dir string) *ReportRepository {
	return &ReportRepository{dir: dir}
}

// path derives the filename. An id carrying a path separator can never name a
// record in this store, so it is rejected before it reaches the filesystem.
func (r *ReportRepository) path(id domain.ReportID) (string, error) {
	name := string(id)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("file store: invalid report id %q", name)
	}
	return filepath.Join(r.dir, name+".json"), nil
}

// Save upsert satu record. Writes to a temp file then renames so concurrent
// readers never observe a truncated record.
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	if rep == nil || strings.TrimSpace(string(rep.ID)) == "" {
		return fmt.Errorf("file store: report id is required")
	}
	dest, err := r.path(rep.ID)
	if err != nil {
		return err
	}
	data, err := domain.Encode(rep)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("file store: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+string(rep.ID)+".tmp-*")
	if err != nil {
		return fmt.Errorf("file store: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file store: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

// Get direct lookup by derived filename
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	p, err := r.path(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return domain.Decode(data)
}

// List scans the directory, skipping files that fail to decode rather than
// aborting the whole listing. Newest first, stable on ties, truncated to limit.
func (r *ReportRepository) List(ctx context.Context, f domain.Filter, limit int) ([]*domain.Report, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []*domain.Report
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, e.Name()))
		if err != nil {
			log.Printf("file store: read %s: %v", e.Name(), err)
			continue
		}
		rep, err := domain.Decode(data)
		if err != nil {
			log.Printf("file store: skip malformed record %s: %v", e.Name(), err)
			continue
		}
		if !f.Matches(rep) {
			continue
		}
		out = append(out, rep)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes the file, reporting whether one existed
func (r *ReportRepository) Delete(ctx context.Context, id domain.ReportID) (bool, error) {
	p, err := r.path(id)
	if err != nil {
		return false, nil
	}
	err = os.Remove(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
