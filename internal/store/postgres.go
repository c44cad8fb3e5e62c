package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/brandlift/partnerfit/internal/model"
)

// DB is the subset of pgxpool.Pool the store uses. pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	db DB
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{db: pool}, nil
}

// NewPostgresFromDB wraps an existing pool-compatible connection. Used by
// tests with pgxmock.
func NewPostgresFromDB(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id    TEXT NOT NULL,
	handle     TEXT NOT NULL,
	profile    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, handle)
);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id            TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL REFERENCES leads(id),
	handle        TEXT NOT NULL,
	analysis_type TEXT NOT NULL,
	business_id   TEXT NOT NULL,
	user_id       TEXT NOT NULL,
	score         INT NOT NULL,
	summary       TEXT NOT NULL,
	cost          DOUBLE PRECISION NOT NULL DEFAULT 0,
	pre_screened  BOOLEAN NOT NULL DEFAULT false,
	profile       JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS credit_accounts (
	user_id    TEXT PRIMARY KEY,
	balance    BIGINT NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS credit_ledger (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	amount      BIGINT NOT NULL,
	entry_type  TEXT NOT NULL,
	description TEXT NOT NULL,
	run_ids     JSONB NOT NULL DEFAULT '[]',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS usage_counters (
	user_id       TEXT NOT NULL,
	month         TEXT NOT NULL,
	analysis_type TEXT NOT NULL,
	analyses      BIGINT NOT NULL DEFAULT 0,
	cost          DOUBLE PRECISION NOT NULL DEFAULT 0,
	score_total   BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, month, analysis_type)
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_user_id ON analysis_runs(user_id);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_credit_ledger_user_id ON credit_ledger(user_id);
`

// Migrate applies the schema. Idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

// SaveAnalysis upserts the lead row for (user, handle) and inserts the run
// row in one transaction.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, rec model.AnalysisRecord) (*model.SavedAnalysis, error) {
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal profile")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin save analysis")
	}
	defer tx.Rollback(ctx)

	runID := rec.ID
	if runID == "" {
		runID = uuid.New().String()
	}

	var leadID string
	err = tx.QueryRow(ctx,
		`INSERT INTO leads (id, user_id, handle, profile, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, handle)
		 DO UPDATE SET profile = EXCLUDED.profile, updated_at = now()
		 RETURNING id`,
		uuid.New().String(), rec.UserID, rec.Handle, profileJSON,
	).Scan(&leadID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert lead %s", rec.Handle)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO analysis_runs (id, lead_id, handle, analysis_type, business_id, user_id, score, summary, cost, pre_screened, profile)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		runID, leadID, rec.Handle, string(rec.AnalysisType), rec.BusinessID, rec.UserID,
		rec.Score, rec.Summary, rec.Cost, rec.PreScreened, profileJSON,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert run for %s", rec.Handle)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit save analysis")
	}

	return &model.SavedAnalysis{RunID: runID, LeadID: leadID}, nil
}

// GetRun fetches one analysis run by ID.
func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.AnalysisRecord, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, lead_id, handle, analysis_type, business_id, user_id, score, summary, cost, pre_screened, profile, created_at
		 FROM analysis_runs WHERE id = $1`,
		runID,
	)
	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return rec, nil
}

// ListRuns returns runs matching the filter, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, lead_id, handle, analysis_type, business_id, user_id, score, summary, cost, pre_screened, profile, created_at
		 FROM analysis_runs
		 WHERE ($1 = '' OR user_id = $1)
		   AND ($2 = '' OR analysis_type = $2)
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		filter.UserID, string(filter.AnalysisType), limit, filter.Offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.AnalysisRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *rec)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func scanRun(row pgx.Row) (*model.AnalysisRecord, error) {
	var rec model.AnalysisRecord
	var analysisType string
	var profileJSON []byte
	err := row.Scan(&rec.ID, &rec.LeadID, &rec.Handle, &analysisType, &rec.BusinessID, &rec.UserID,
		&rec.Score, &rec.Summary, &rec.Cost, &rec.PreScreened, &profileJSON, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.AnalysisType = model.AnalysisType(analysisType)
	if err := json.Unmarshal(profileJSON, &rec.Profile); err != nil {
		return nil, eris.Wrap(err, "unmarshal profile")
	}
	return &rec, nil
}

// GetCreditBalance reads the current balance. Users without an account row
// read as zero credits.
func (s *PostgresStore) GetCreditBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx,
		`SELECT balance FROM credit_accounts WHERE user_id = $1`,
		userID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: get balance %s", userID)
	}
	return balance, nil
}

// DebitCredits atomically decrements the balance and records the ledger entry
// in one transaction. The decrement is conditional on sufficient balance so
// concurrent bulk requests cannot overdraw the account.
func (s *PostgresStore) DebitCredits(ctx context.Context, entry model.LedgerEntry) error {
	if entry.Amount <= 0 {
		return nil
	}

	runIDs, err := json.Marshal(entry.RunIDs)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal run ids")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin debit")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE credit_accounts SET balance = balance - $1, updated_at = now()
		 WHERE user_id = $2 AND balance >= $1`,
		entry.Amount, entry.UserID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: debit %s", entry.UserID)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientCredits
	}

	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO credit_ledger (id, user_id, amount, entry_type, description, run_ids)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, entry.UserID, entry.Amount, string(entry.Type), entry.Description, runIDs,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert ledger entry")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit debit")
}

// Grant adds credits to a user's account, creating it if absent.
func (s *PostgresStore) Grant(ctx context.Context, userID string, amount int64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO credit_accounts (user_id, balance) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET balance = credit_accounts.balance + EXCLUDED.balance, updated_at = now()`,
		userID, amount,
	)
	return eris.Wrapf(err, "postgres: grant credits %s", userID)
}

// IncrementUsage upserts the monthly counter for (user, month, type).
func (s *PostgresStore) IncrementUsage(ctx context.Context, inc model.UsageIncrement) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO usage_counters (user_id, month, analysis_type, analyses, cost, score_total)
		 VALUES ($1, $2, $3, 1, $4, $5)
		 ON CONFLICT (user_id, month, analysis_type)
		 DO UPDATE SET analyses = usage_counters.analyses + 1,
		               cost = usage_counters.cost + EXCLUDED.cost,
		               score_total = usage_counters.score_total + EXCLUDED.score_total`,
		inc.UserID, inc.Month, string(inc.AnalysisType), inc.Cost, inc.Score,
	)
	return eris.Wrapf(err, "postgres: increment usage %s/%s", inc.UserID, inc.Month)
}
