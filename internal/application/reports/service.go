package reports

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bryanwahyu/report-vault/internal/application"
	domain "github.com/bryanwahyu/report-vault/internal/domain/reports"
)

// Service is the single entry point in front of whichever backend is
// configured. Nothing below it leaks past this boundary: backend failures
// become boolean / empty results, and every record returned to a caller is
// normalized into the canonical shape regardless of backend.
//
// Archive is optional; when set, Save additionally mirrors the encoded record
// to object storage, best-effort.
type Service struct {
	Backend domain.Backend
	Archive domain.ArchiveStore
	Clock   application.Clock
}

func NewService(backend domain.Backend, archive domain.ArchiveStore, clock application.Clock) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{Backend: backend, Archive: archive, Clock: clock}
}

const defaultListLimit = 100

// Save upserts by id, last writer wins. Success means "no error", not "state
// changed": re-saving identical content still reports true.
func (s *Service) Save(ctx context.Context, r *domain.Report) bool {
	if r == nil || strings.TrimSpace(string(r.ID)) == "" {
		log.Printf("reports: save rejected, missing id")
		return false
	}

	now := s.Clock.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.Timestamp == 0 {
		r.Timestamp = r.CreatedAt.Unix()
	}
	if r.AnalysisDate == "" {
		r.AnalysisDate = r.CreatedAt.Format("2006-01-02")
	}
	if r.Status == "" {
		r.Status = domain.StatusCompleted
	}
	r.UpdatedAt = now
	r.SavedAt = now

	if err := s.Backend.Save(ctx, r); err != nil {
		log.Printf("reports: save %s: %v", r.ID, err)
		return false
	}

	if s.Archive != nil {
		if data, err := domain.Encode(r); err == nil {
			if _, err := s.Archive.Archive(ctx, r.ID, data); err != nil {
				log.Printf("reports: archive %s: %v", r.ID, err)
			}
		}
	}
	return true
}

// List returns at most limit records, newest first. Backend failure yields an
// empty result, never an error.
func (s *Service) List(ctx context.Context, f domain.Filter, limit int) []*domain.Report {
	if limit <= 0 {
		limit = defaultListLimit
	}
	out, err := s.Backend.List(ctx, f, limit)
	if err != nil {
		log.Printf("reports: list: %v", err)
		return nil
	}
	for _, r := range out {
		normalize(r, s.Clock.Now())
	}
	return out
}

// Get by id. The second return is false both for not-found and for a
// backend failure.
func (s *Service) Get(ctx context.Context, id domain.ReportID) (*domain.Report, bool) {
	r, err := s.Backend.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("reports: get %s: %v", id, err)
		}
		return nil, false
	}
	normalize(r, s.Clock.Now())
	return r, true
}

// Delete by id, reporting whether a record existed
func (s *Service) Delete(ctx context.Context, id domain.ReportID) bool {
	existed, err := s.Backend.Delete(ctx, id)
	if err != nil {
		log.Printf("reports: delete %s: %v", id, err)
		return false
	}
	return existed
}

// RepairInconsistent sweeps the full record set and rewrites every record
// whose payload is missing or null with an explicit empty mapping, refreshing
// updatedAt. Idempotent: repaired records are no longer inconsistent, so a
// second sweep fixes zero. Existing payload content is never touched.
func (s *Service) RepairInconsistent(ctx context.Context) int {
	all, err := s.Backend.List(ctx, domain.Filter{}, 0)
	if err != nil {
		log.Printf("reports: repair scan: %v", err)
		return 0
	}

	fixed := 0
	for _, r := range all {
		if !r.Inconsistent() {
			continue
		}
		r.Payload = map[string]any{}
		r.UpdatedAt = s.Clock.Now()
		if err := s.Backend.Save(ctx, r); err != nil {
			log.Printf("reports: repair %s: %v", r.ID, err)
			continue
		}
		fixed++
	}
	if fixed > 0 {
		log.Printf("reports: repaired %d inconsistent record(s)", fixed)
	}
	return fixed
}

// normalize shapes a record into the caller-facing form: documented defaults
// for every absent optional field, whatever the backend stored.
func normalize(r *domain.Report, now time.Time) {
	if r.Analysts == nil {
		r.Analysts = []string{}
	}
	if r.Payload == nil {
		r.Payload = map[string]any{}
	}
	if r.Status == "" {
		r.Status = domain.StatusCompleted
	}
	if r.Timestamp == 0 {
		if !r.CreatedAt.IsZero() {
			r.Timestamp = r.CreatedAt.Unix()
		} else {
			r.Timestamp = now.Unix()
		}
	}
	if r.AnalysisDate == "" && !r.CreatedAt.IsZero() {
		r.AnalysisDate = r.CreatedAt.Format("2006-01-02")
	}
}
