package model

import "time"

// LedgerEntryType is the kind of credit ledger movement.
type LedgerEntryType string

// LedgerEntryUse records credits consumed by completed analyses.
const LedgerEntryUse LedgerEntryType = "use"

// LedgerEntry is one movement against a user's credit balance. Bulk analyses
// produce a single aggregate entry covering every successful profile.
type LedgerEntry struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      int64           `json:"amount"`
	Type        LedgerEntryType `json:"type"`
	Description string          `json:"description"`
	RunIDs      []string        `json:"run_ids"`
	CreatedAt   time.Time       `json:"created_at"`
}

// UsageIncrement is one best-effort usage-analytics write: a monthly counter
// keyed by (user, month, analysis type), decoupled from the billing ledger.
type UsageIncrement struct {
	UserID       string       `json:"user_id"`
	Month        string       `json:"month"` // "2026-09"
	AnalysisType AnalysisType `json:"analysis_type"`
	Cost         float64      `json:"cost"`
	Score        int          `json:"score"`
}

// MonthKey formats t as the calendar-month key used by usage counters.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
