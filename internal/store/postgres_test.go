package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlift/partnerfit/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit
// testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromDB(mock), mock
}

func sampleRecord() model.AnalysisRecord {
	return model.AnalysisRecord{
		Handle:       "alice",
		AnalysisType: model.AnalysisTypeBrandFit,
		BusinessID:   "biz-1",
		UserID:       "user-1",
		Score:        72,
		Summary:      "Strong niche audience.",
		Cost:         0.0123,
		Profile:      model.Profile{Handle: "alice", FollowersCount: 12000},
	}
}

func TestPostgresStore_SaveAnalysis(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(pgxmock.AnyArg(), "user-1", "alice", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("lead-42"))
	mock.ExpectExec(`INSERT INTO analysis_runs`).
		WithArgs(pgxmock.AnyArg(), "lead-42", "alice", "brand_fit", "biz-1", "user-1",
			72, "Strong niche audience.", 0.0123, false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	saved, err := s.SaveAnalysis(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "lead-42", saved.LeadID)
	assert.NotEmpty(t, saved.RunID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAnalysis_LeadUpsertFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(pgxmock.AnyArg(), "user-1", "alice", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrTxClosed)
	mock.ExpectRollback()

	_, err := s.SaveAnalysis(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert lead")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM analysis_runs WHERE id = \$1`).
		WithArgs("missing-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "lead_id", "handle", "analysis_type", "business_id", "user_id",
		"score", "summary", "cost", "pre_screened", "profile", "created_at",
	}).
		AddRow("run-2", "lead-1", "alice", "brand_fit", "biz-1", "user-1",
			72, "ok", 0.01, false, []byte(`{"handle":"alice"}`), now).
		AddRow("run-1", "lead-2", "bob", "brand_fit", "biz-1", "user-1",
			15, "small private", 0.002, true, []byte(`{"handle":"bob"}`), now.Add(-time.Hour))

	mock.ExpectQuery(`FROM analysis_runs`).
		WithArgs("user-1", "", 2, 0).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{UserID: "user-1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "alice", runs[0].Profile.Handle)
	assert.True(t, runs[1].PreScreened)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCreditBalance_NoAccount(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT balance FROM credit_accounts`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	balance, err := s.GetCreditBalance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DebitCredits(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE credit_accounts SET balance = balance - \$1`).
		WithArgs(int64(3), "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO credit_ledger`).
		WithArgs(pgxmock.AnyArg(), "user-1", int64(3), "use", "bulk brand_fit analysis: 3 profiles", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.DebitCredits(context.Background(), model.LedgerEntry{
		UserID:      "user-1",
		Amount:      3,
		Type:        model.LedgerEntryUse,
		Description: "bulk brand_fit analysis: 3 profiles",
		RunIDs:      []string{"run-1", "run-2", "run-3"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DebitCredits_Insufficient(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE credit_accounts SET balance = balance - \$1`).
		WithArgs(int64(10), "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := s.DebitCredits(context.Background(), model.LedgerEntry{
		UserID: "user-1",
		Amount: 10,
		Type:   model.LedgerEntryUse,
	})
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DebitCredits_ZeroAmountNoOp(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	err := s.DebitCredits(context.Background(), model.LedgerEntry{UserID: "user-1", Amount: 0})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Grant(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO credit_accounts`).
		WithArgs("user-1", int64(100)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Grant(context.Background(), "user-1", 100)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_IncrementUsage(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO usage_counters`).
		WithArgs("user-1", "2026-09", "brand_fit", 0.0123, 72).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.IncrementUsage(context.Background(), model.UsageIncrement{
		UserID:       "user-1",
		Month:        "2026-09",
		AnalysisType: model.AnalysisTypeBrandFit,
		Cost:         0.0123,
		Score:        72,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
