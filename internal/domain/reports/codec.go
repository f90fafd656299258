package reports

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Encode serializes a record to its durable JSON form.
// Fails only when the id is empty.
func Encode(r *Report) ([]byte, error) {
	if r == nil || strings.TrimSpace(string(r.ID)) == "" {
		return nil, fmt.Errorf("encode: report id is required")
	}
	return json.MarshalIndent(r, "", "  ")
}

// Decode parses the durable form back into a record. Optional fields absent
// from older serializations get typed defaults; a nil payload is preserved so
// the repair sweep can see it.
func Decode(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if strings.TrimSpace(string(r.ID)) == "" {
		return nil, fmt.Errorf("decode report: missing id")
	}
	if r.Status == "" {
		r.Status = StatusCompleted
	}
	if r.Timestamp == 0 && !r.CreatedAt.IsZero() {
		r.Timestamp = r.CreatedAt.Unix()
	}
	if r.AnalysisDate == "" && !r.CreatedAt.IsZero() {
		r.AnalysisDate = r.CreatedAt.Format("2006-01-02")
	}
	return &r, nil
}
