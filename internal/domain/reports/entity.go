package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ID tipe untuk Report
type ReportID string

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrNotFound returned when no record exists for the requested id
var ErrNotFound = errors.New("report not found")

// ErrUnavailable returned by a backend that lost (or never had) its connection
var ErrUnavailable = errors.New("report backend unavailable")

// Aggregate Root: Report
//
// Payload is opaque to the store: section name -> content (string or nested
// mapping). A nil payload marks the record as inconsistent and eligible for
// repair; the repaired form is an explicit empty mapping.
type Report struct {
	ID            ReportID       `json:"id" bson:"id"`
	Symbol        string         `json:"symbol" bson:"symbol"`
	AnalysisDate  string         `json:"analysis_date,omitempty" bson:"analysis_date,omitempty"`
	Timestamp     int64          `json:"timestamp,omitempty" bson:"-"`
	Status        Status         `json:"status" bson:"status"`
	Analysts      []string       `json:"analysts,omitempty" bson:"analysts,omitempty"`
	ResearchDepth int            `json:"research_depth,omitempty" bson:"research_depth,omitempty"`
	Summary       string         `json:"summary,omitempty" bson:"summary,omitempty"`
	Payload       map[string]any `json:"payload" bson:"payload"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
	SavedAt       time.Time      `json:"saved_at,omitempty" bson:"saved_at,omitempty"`
}

// NewReportID builds the canonical id: <SYMBOL>_<YYYYMMDD_HHMMSS>
func NewReportID(symbol string, at time.Time) ReportID {
	return ReportID(fmt.Sprintf("%s_%s", strings.ToUpper(strings.TrimSpace(symbol)), at.Format("20060102_150405")))
}

// NewReport creates a record stamped at the given instant
func NewReport(symbol string, at time.Time) *Report {
	return &Report{
		ID:           NewReportID(symbol, at),
		Symbol:       strings.ToUpper(strings.TrimSpace(symbol)),
		AnalysisDate: at.Format("2006-01-02"),
		Timestamp:    at.Unix(),
		Status:       StatusCompleted,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

// Inconsistent reports a record whose payload is missing or null.
// The explicit empty mapping counts as consistent (repaired) state.
func (r *Report) Inconsistent() bool {
	return r.Payload == nil
}
