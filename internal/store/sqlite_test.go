package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlift/partnerfit/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// --- Analyses ---

func TestSQLite_SaveAnalysis_AndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SaveAnalysis(ctx, sampleRecord())
	require.NoError(t, err)
	require.NotEmpty(t, saved.RunID)
	require.NotEmpty(t, saved.LeadID)

	rec, err := st.GetRun(ctx, saved.RunID)
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Handle)
	assert.Equal(t, model.AnalysisTypeBrandFit, rec.AnalysisType)
	assert.Equal(t, 72, rec.Score)
	assert.Equal(t, 12000, rec.Profile.FollowersCount)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSQLite_SaveAnalysis_ReusesLead(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := st.SaveAnalysis(ctx, sampleRecord())
	require.NoError(t, err)

	// A second run for the same (user, handle) keeps the same lead.
	second, err := st.SaveAnalysis(ctx, sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, first.LeadID, second.LeadID)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLite_ListRuns_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	recA := sampleRecord()
	_, err := st.SaveAnalysis(ctx, recA)
	require.NoError(t, err)

	recB := sampleRecord()
	recB.Handle = "bob"
	recB.UserID = "user-2"
	_, err = st.SaveAnalysis(ctx, recB)
	require.NoError(t, err)

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := st.ListRuns(ctx, RunFilter{UserID: "user-2"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "bob", mine[0].Handle)

	none, err := st.ListRuns(ctx, RunFilter{AnalysisType: "sentiment"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

// --- Credits ---

func TestSQLite_GrantAndBalance(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	balance, err := st.GetCreditBalance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	require.NoError(t, st.Grant(ctx, "user-1", 100))
	require.NoError(t, st.Grant(ctx, "user-1", 20))

	balance, err = st.GetCreditBalance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance)
}

func TestSQLite_DebitCredits(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Grant(ctx, "user-1", 10))

	err := st.DebitCredits(ctx, model.LedgerEntry{
		UserID:      "user-1",
		Amount:      3,
		Type:        model.LedgerEntryUse,
		Description: "bulk brand_fit analysis: 3 profiles",
		RunIDs:      []string{"run-1", "run-2", "run-3"},
	})
	require.NoError(t, err)

	balance, err := st.GetCreditBalance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), balance)
}

func TestSQLite_DebitCredits_Insufficient(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Grant(ctx, "user-1", 2))

	err := st.DebitCredits(ctx, model.LedgerEntry{
		UserID: "user-1",
		Amount: 3,
		Type:   model.LedgerEntryUse,
	})
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	// A refused debit leaves the balance untouched.
	balance, err := st.GetCreditBalance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance)
}

func TestSQLite_DebitCredits_UnknownUser(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.DebitCredits(context.Background(), model.LedgerEntry{
		UserID: "nobody",
		Amount: 1,
		Type:   model.LedgerEntryUse,
	})
	assert.ErrorIs(t, err, ErrInsufficientCredits)
}

// --- Usage ---

func TestSQLite_IncrementUsage_Accumulates(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	inc := model.UsageIncrement{
		UserID:       "user-1",
		Month:        "2026-09",
		AnalysisType: model.AnalysisTypeBrandFit,
		Cost:         0.01,
		Score:        70,
	}
	require.NoError(t, st.IncrementUsage(ctx, inc))

	inc.Cost = 0.02
	inc.Score = 50
	require.NoError(t, st.IncrementUsage(ctx, inc))

	var analyses, scoreTotal int64
	var cost float64
	err := st.db.QueryRowContext(ctx,
		`SELECT analyses, cost, score_total FROM usage_counters WHERE user_id = ? AND month = ? AND analysis_type = ?`,
		"user-1", "2026-09", "brand_fit",
	).Scan(&analyses, &cost, &scoreTotal)
	require.NoError(t, err)
	assert.Equal(t, int64(2), analyses)
	assert.InDelta(t, 0.03, cost, 1e-9)
	assert.Equal(t, int64(120), scoreTotal)
}
