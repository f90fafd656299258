package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	domain "github.com/bryanwahyu/report-vault/internal/domain/reports"
)

// ReportRepository stores one document per record in a remote collection.
// A failed connection leaves the repository in disconnected mode: every
// operation reports ErrUnavailable instead of blocking or panicking, so the
// caller can fail over or surface a degraded-mode warning.
type ReportRepository struct {
	client    *mongo.Client
	coll      *mongo.Collection
	connected bool
	now       func() time.Time
}

// NewReportRepository never returns an error: connectivity failure is a
// degraded mode, not a construction failure.
func NewReportRepository(ctx context.Context, uri, database string) *ReportRepository {
	r := &ReportRepository{now: time.Now}

	client, err := Connect(ctx, uri)
	if err != nil {
		log.Printf("mongo store: connect failed, operating disconnected: %v", err)
		return r
	}

	r.client = client
	r.coll = client.Database(database).Collection(collectionName)
	r.connected = true
	ensureIndexes(ctx, r.coll)
	return r
}

// Connected reports whether the backing connection was established
func (r *ReportRepository) Connected() bool { return r.connected }

// Ping for health checks
func (r *ReportRepository) Ping(ctx context.Context) error {
	if !r.connected {
		return domain.ErrUnavailable
	}
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.client.Ping(ctx2, readpref.Primary())
}

// Close releases the client
func (r *ReportRepository) Close(ctx context.Context) error {
	if !r.connected {
		return nil
	}
	return r.client.Disconnect(ctx)
}

// reportDoc is the wire shape. Timestamp is decoded loosely because stored
// documents may carry a native date, a numeric epoch, or nothing at all.
type reportDoc struct {
	ID            string         `bson:"id"`
	Symbol        string         `bson:"symbol"`
	AnalysisDate  string         `bson:"analysis_date,omitempty"`
	Timestamp     any            `bson:"timestamp,omitempty"`
	Status        string         `bson:"status,omitempty"`
	Analysts      []string       `bson:"analysts,omitempty"`
	ResearchDepth int            `bson:"research_depth,omitempty"`
	Summary       string         `bson:"summary,omitempty"`
	Payload       map[string]any `bson:"payload"`
	CreatedAt     time.Time      `bson:"created_at,omitempty"`
	UpdatedAt     time.Time      `bson:"updated_at,omitempty"`
	SavedAt       time.Time      `bson:"saved_at,omitempty"`
}

func toDoc(rep *domain.Report) *reportDoc {
	d := &reportDoc{
		ID:            string(rep.ID),
		Symbol:        rep.Symbol,
		AnalysisDate:  rep.AnalysisDate,
		Status:        string(rep.Status),
		Analysts:      rep.Analysts,
		ResearchDepth: rep.ResearchDepth,
		Summary:       rep.Summary,
		Payload:       rep.Payload,
		CreatedAt:     rep.CreatedAt,
		UpdatedAt:     rep.UpdatedAt,
		SavedAt:       rep.SavedAt,
	}
	if rep.Timestamp != 0 {
		d.Timestamp = time.Unix(rep.Timestamp, 0).UTC()
	}
	return d
}

func (r *ReportRepository) fromDoc(d *reportDoc) *domain.Report {
	return &domain.Report{
		ID:            domain.ReportID(d.ID),
		Symbol:        d.Symbol,
		AnalysisDate:  d.AnalysisDate,
		Timestamp:     normalizeTimestamp(d.Timestamp, r.now()),
		Status:        domain.Status(d.Status),
		Analysts:      d.Analysts,
		ResearchDepth: d.ResearchDepth,
		Summary:       d.Summary,
		Payload:       d.Payload,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		SavedAt:       d.SavedAt,
	}
}

// normalizeTimestamp projects whatever shape the stored value has into epoch
// seconds, defaulting to "now" when unusable. Callers never see the
// backend-native representation.
func normalizeTimestamp(v any, fallback time.Time) int64 {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().Unix()
	case time.Time:
		return t.Unix()
	case int64:
		return t
	case int32:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return fallback.Unix()
	}
}

// Save is a replace-or-insert upsert keyed by id. No version check: the last
// write to reach the server wins.
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	if !r.connected {
		return domain.ErrUnavailable
	}
	if rep == nil || strings.TrimSpace(string(rep.ID)) == "" {
		return fmt.Errorf("mongo store: report id is required")
	}
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"id": string(rep.ID)},
		toDoc(rep),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo store: save %s: %w", rep.ID, err)
	}
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	if !r.connected {
		return nil, domain.ErrUnavailable
	}
	var d reportDoc
	err := r.coll.FindOne(ctx, bson.M{"id": string(id)}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mongo store: get %s: %w", id, err)
	}
	return r.fromDoc(&d), nil
}

func (r *ReportRepository) List(ctx context.Context, f domain.Filter, limit int) ([]*domain.Report, error) {
	if !r.connected {
		return nil, domain.ErrUnavailable
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, buildQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo store: list: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Report
	for cur.Next(ctx) {
		var d reportDoc
		if err := cur.Decode(&d); err != nil {
			log.Printf("mongo store: skip malformed document: %v", err)
			continue
		}
		out = append(out, r.fromDoc(&d))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo store: list cursor: %w", err)
	}
	return out, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id domain.ReportID) (bool, error) {
	if !r.connected {
		return false, domain.ErrUnavailable
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": string(id)})
	if err != nil {
		return false, fmt.Errorf("mongo store: delete %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// buildQuery translates the shared Filter contract into a conjunction query
// with the same semantics as Filter.Matches.
func buildQuery(f domain.Filter) bson.M {
	q := bson.M{}
	if f.Symbol != "" {
		q["symbol"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(f.Symbol) + "$",
			Options: "i",
		}
	}
	if f.Analyst != "" {
		q["analysts"] = f.Analyst
	}
	if f.StartDate != "" || f.EndDate != "" {
		dr := bson.M{}
		if f.StartDate != "" {
			dr["$gte"] = f.StartDate
		}
		if f.EndDate != "" {
			dr["$lte"] = f.EndDate
		}
		q["analysis_date"] = dr
	}
	return q
}
