package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/brandlift/partnerfit/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Used for local
// development and offline runs of the analyze command.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	handle     TEXT NOT NULL,
	profile    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (user_id, handle)
);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id            TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL REFERENCES leads(id),
	handle        TEXT NOT NULL,
	analysis_type TEXT NOT NULL,
	business_id   TEXT NOT NULL,
	user_id       TEXT NOT NULL,
	score         INTEGER NOT NULL,
	summary       TEXT NOT NULL,
	cost          REAL NOT NULL DEFAULT 0,
	pre_screened  INTEGER NOT NULL DEFAULT 0,
	profile       TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS credit_accounts (
	user_id    TEXT PRIMARY KEY,
	balance    INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS credit_ledger (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	amount      INTEGER NOT NULL,
	entry_type  TEXT NOT NULL,
	description TEXT NOT NULL,
	run_ids     TEXT NOT NULL DEFAULT '[]',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS usage_counters (
	user_id       TEXT NOT NULL,
	month         TEXT NOT NULL,
	analysis_type TEXT NOT NULL,
	analyses      INTEGER NOT NULL DEFAULT 0,
	cost          REAL NOT NULL DEFAULT 0,
	score_total   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, month, analysis_type)
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_user_id ON analysis_runs(user_id);
CREATE INDEX IF NOT EXISTS idx_credit_ledger_user_id ON credit_ledger(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, rec model.AnalysisRecord) (*model.SavedAnalysis, error) {
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal profile")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin save analysis")
	}
	defer tx.Rollback()

	runID := rec.ID
	if runID == "" {
		runID = uuid.New().String()
	}

	leadID := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO leads (id, user_id, handle, profile, updated_at)
		 VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT (user_id, handle)
		 DO UPDATE SET profile = excluded.profile, updated_at = datetime('now')`,
		leadID, rec.UserID, rec.Handle, string(profileJSON),
	); err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert lead %s", rec.Handle)
	}
	// The upsert may have kept an existing row; read back the real ID.
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM leads WHERE user_id = ? AND handle = ?`,
		rec.UserID, rec.Handle,
	).Scan(&leadID); err != nil {
		return nil, eris.Wrapf(err, "sqlite: read lead id %s", rec.Handle)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, lead_id, handle, analysis_type, business_id, user_id, score, summary, cost, pre_screened, profile)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, leadID, rec.Handle, string(rec.AnalysisType), rec.BusinessID, rec.UserID,
		rec.Score, rec.Summary, rec.Cost, rec.PreScreened, string(profileJSON),
	); err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert run for %s", rec.Handle)
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit save analysis")
	}

	return &model.SavedAnalysis{RunID: runID, LeadID: leadID}, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, lead_id, handle, analysis_type, business_id, user_id, score, summary, cost, pre_screened, profile, created_at
		 FROM analysis_runs WHERE id = ?`,
		runID,
	)
	rec, err := scanSQLiteRun(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return rec, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, handle, analysis_type, business_id, user_id, score, summary, cost, pre_screened, profile, created_at
		 FROM analysis_runs
		 WHERE (? = '' OR user_id = ?)
		   AND (? = '' OR analysis_type = ?)
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		filter.UserID, filter.UserID, string(filter.AnalysisType), string(filter.AnalysisType), limit, filter.Offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.AnalysisRecord
	for rows.Next() {
		rec, err := scanSQLiteRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *rec)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func scanSQLiteRun(scan func(dest ...any) error) (*model.AnalysisRecord, error) {
	var rec model.AnalysisRecord
	var analysisType, profileJSON string
	var createdAt time.Time
	err := scan(&rec.ID, &rec.LeadID, &rec.Handle, &analysisType, &rec.BusinessID, &rec.UserID,
		&rec.Score, &rec.Summary, &rec.Cost, &rec.PreScreened, &profileJSON, &createdAt)
	if err != nil {
		return nil, err
	}
	rec.AnalysisType = model.AnalysisType(analysisType)
	rec.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(profileJSON), &rec.Profile); err != nil {
		return nil, eris.Wrap(err, "unmarshal profile")
	}
	return &rec, nil
}

func (s *SQLiteStore) GetCreditBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM credit_accounts WHERE user_id = ?`,
		userID,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: get balance %s", userID)
	}
	return balance, nil
}

func (s *SQLiteStore) DebitCredits(ctx context.Context, entry model.LedgerEntry) error {
	if entry.Amount <= 0 {
		return nil
	}

	runIDs, err := json.Marshal(entry.RunIDs)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run ids")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin debit")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE credit_accounts SET balance = balance - ?, updated_at = datetime('now')
		 WHERE user_id = ? AND balance >= ?`,
		entry.Amount, entry.UserID, entry.Amount,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: debit %s", entry.UserID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: debit rows affected")
	}
	if affected == 0 {
		return ErrInsufficientCredits
	}

	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO credit_ledger (id, user_id, amount, entry_type, description, run_ids)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, entry.UserID, entry.Amount, string(entry.Type), entry.Description, string(runIDs),
	); err != nil {
		return eris.Wrap(err, "sqlite: insert ledger entry")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit debit")
}

func (s *SQLiteStore) IncrementUsage(ctx context.Context, inc model.UsageIncrement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_counters (user_id, month, analysis_type, analyses, cost, score_total)
		 VALUES (?, ?, ?, 1, ?, ?)
		 ON CONFLICT (user_id, month, analysis_type)
		 DO UPDATE SET analyses = analyses + 1,
		               cost = cost + excluded.cost,
		               score_total = score_total + excluded.score_total`,
		inc.UserID, inc.Month, string(inc.AnalysisType), inc.Cost, inc.Score,
	)
	return eris.Wrapf(err, "sqlite: increment usage %s/%s", inc.UserID, inc.Month)
}

// Grant adds credits to a user's account, creating it if absent. Used by the
// migrate command's --grant flag and by tests.
func (s *SQLiteStore) Grant(ctx context.Context, userID string, amount int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credit_accounts (user_id, balance) VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET balance = balance + excluded.balance, updated_at = datetime('now')`,
		userID, amount,
	)
	return eris.Wrapf(err, "sqlite: grant credits %s", userID)
}
