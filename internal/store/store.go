package store

import (
	"context"
	"errors"

	"github.com/brandlift/partnerfit/internal/model"
)

// ErrInsufficientCredits is returned by DebitCredits when the conditional
// decrement finds less balance than the requested amount. The debit is the
// source of truth; the pre-flight balance read is advisory only.
var ErrInsufficientCredits = errors.New("store: insufficient credits")

// ErrRunNotFound is returned by GetRun when no run exists with the given ID.
var ErrRunNotFound = errors.New("store: run not found")

// RunFilter specifies criteria for listing analysis runs.
type RunFilter struct {
	UserID       string             `json:"user_id,omitempty"`
	AnalysisType model.AnalysisType `json:"analysis_type,omitempty"`
	Limit        int                `json:"limit,omitempty"`
	Offset       int                `json:"offset,omitempty"`
}

// Store defines the persistence interface for the analysis orchestrator.
type Store interface {
	// Analyses
	SaveAnalysis(ctx context.Context, rec model.AnalysisRecord) (*model.SavedAnalysis, error)
	GetRun(ctx context.Context, runID string) (*model.AnalysisRecord, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRecord, error)

	// Credit ledger
	GetCreditBalance(ctx context.Context, userID string) (int64, error)
	DebitCredits(ctx context.Context, entry model.LedgerEntry) error
	Grant(ctx context.Context, userID string, amount int64) error

	// Usage analytics
	IncrementUsage(ctx context.Context, inc model.UsageIncrement) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
