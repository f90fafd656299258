package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	r := &Report{
		ID:            "AAPL_20240101_090000",
		Symbol:        "AAPL",
		AnalysisDate:  "2024-01-01",
		Timestamp:     at.Unix(),
		Status:        StatusCompleted,
		Analysts:      []string{"market", "fundamentals"},
		ResearchDepth: 3,
		Summary:       "buy",
		Payload: map[string]any{
			"summary": "buy",
			"detail":  map[string]any{"target": "200"},
		},
		CreatedAt: at,
		UpdatedAt: at,
		SavedAt:   at,
	}

	data, err := Encode(r)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestEncodeRequiresID(t *testing.T) {
	_, err := Encode(&Report{Symbol: "AAPL"})
	require.Error(t, err)

	_, err = Encode(nil)
	require.Error(t, err)
}

func TestDecodeDefaultsForAbsentOptionalFields(t *testing.T) {
	data := []byte(`{"id":"AAPL_20240101_090000","symbol":"AAPL","created_at":"2024-01-01T09:00:00Z","updated_at":"2024-01-01T09:00:00Z"}`)

	r, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, r.Status)
	assert.Nil(t, r.Analysts)
	assert.Zero(t, r.ResearchDepth)
	assert.Equal(t, "2024-01-01", r.AnalysisDate)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Unix(), r.Timestamp)
	// nil payload survives decode so the repair sweep can detect it
	assert.Nil(t, r.Payload)
	assert.True(t, r.Inconsistent())
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	require.Error(t, err)

	_, err = Decode([]byte(`{"symbol":"AAPL"}`))
	require.Error(t, err)
}

func TestExplicitEmptyPayloadIsConsistent(t *testing.T) {
	r, err := Decode([]byte(`{"id":"AAPL_20240101_090000","symbol":"AAPL","payload":{}}`))
	require.NoError(t, err)
	assert.NotNil(t, r.Payload)
	assert.False(t, r.Inconsistent())
}

func TestNewReport(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 30, 45, 0, time.UTC)
	r := NewReport("aapl", at)

	assert.Equal(t, ReportID("AAPL_20240305_143045"), r.ID)
	assert.Equal(t, "AAPL", r.Symbol)
	assert.Equal(t, "2024-03-05", r.AnalysisDate)
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, at.Unix(), r.Timestamp)
}
