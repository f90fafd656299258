package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/report-vault/internal/domain/reports"
)

func sample(symbol string, at time.Time) *domain.Report {
	r := domain.NewReport(symbol, at)
	r.Analysts = []string{"market"}
	r.Payload = map[string]any{"summary": "ok"}
	return r
}

func TestSaveGetDelete(t *testing.T) {
	repo := NewReportRepository(t.TempDir())
	ctx := context.Background()

	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	r := sample("AAPL", at)
	require.NoError(t, repo.Save(ctx, r))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	existed, err := repo.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = repo.Get(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	existed, err = repo.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestSaveOverwritesExisting(t *testing.T) {
	repo := NewReportRepository(t.TempDir())
	ctx := context.Background()

	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	r := sample("AAPL", at)
	require.NoError(t, repo.Save(ctx, r))

	r.Summary = "revised"
	require.NoError(t, repo.Save(ctx, r))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", got.Summary)

	all, err := repo.List(ctx, domain.Filter{}, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveRejectsMissingID(t *testing.T) {
	repo := NewReportRepository(t.TempDir())
	assert.Error(t, repo.Save(context.Background(), &domain.Report{Symbol: "AAPL"}))
	assert.Error(t, repo.Save(context.Background(), nil))
}

func TestListNewestFirstWithLimit(t *testing.T) {
	repo := NewReportRepository(t.TempDir())
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, sample("AAPL", base.Add(time.Duration(i)*time.Hour))))
	}

	out, err := repo.List(ctx, domain.Filter{}, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, base.Add(4*time.Hour).Unix(), out[0].Timestamp)
	assert.Equal(t, base.Add(3*time.Hour).Unix(), out[1].Timestamp)
	assert.Equal(t, base.Add(2*time.Hour).Unix(), out[2].Timestamp)
}

func TestListFiltersSymbolCaseInsensitive(t *testing.T) {
	repo := NewReportRepository(t.TempDir())
	ctx := context.Background()

	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, sample("AAPL", at)))
	require.NoError(t, repo.Save(ctx, sample("TSLA", at)))

	out, err := repo.List(ctx, domain.Filter{Symbol: "aapl"}, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "AAPL", out[0].Symbol)
}

func TestListSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	repo := NewReportRepository(dir)
	ctx := context.Background()

	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, sample("AAPL", at)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	out, err := repo.List(ctx, domain.Filter{}, 0)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestListMissingDirIsEmpty(t *testing.T) {
	repo := NewReportRepository(filepath.Join(t.TempDir(), "absent"))
	out, err := repo.List(context.Background(), domain.Filter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPathSeparatorsInIDNeverEscapeRoot(t *testing.T) {
	base := t.TempDir()
	outside := filepath.Join(base, "victim.json")
	require.NoError(t, os.WriteFile(outside, []byte("{}"), 0o644))

	repo := NewReportRepository(filepath.Join(base, "reports"))
	ctx := context.Background()

	existed, err := repo.Delete(ctx, "../victim")
	require.NoError(t, err)
	assert.False(t, existed)
	// the file outside the store root survives
	_, err = os.Stat(outside)
	assert.NoError(t, err)

	_, err = repo.Get(ctx, "../victim")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Error(t, repo.Save(ctx, &domain.Report{ID: `..\victim`, Symbol: "AAPL"}))
	assert.Error(t, repo.Save(ctx, &domain.Report{ID: "nested/escape", Symbol: "AAPL"}))
}
