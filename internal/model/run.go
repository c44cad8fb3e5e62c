package model

import "time"

// AnalysisRecord is the durable row written for each scored profile. The run
// ID is the stable reference linked from ledger entries.
type AnalysisRecord struct {
	ID           string       `json:"id"`
	LeadID       string       `json:"lead_id"`
	Handle       string       `json:"handle"`
	AnalysisType AnalysisType `json:"analysis_type"`
	BusinessID   string       `json:"business_id"`
	UserID       string       `json:"user_id"`
	Score        int          `json:"score"`
	Summary      string       `json:"summary"`
	Cost         float64      `json:"cost"`
	PreScreened  bool         `json:"pre_screened"`
	Profile      Profile      `json:"profile"`
	CreatedAt    time.Time    `json:"created_at"`
}

// SavedAnalysis carries the references produced by persisting an analysis:
// the run row and the lead (profile) row it was attached to.
type SavedAnalysis struct {
	RunID  string `json:"run_id"`
	LeadID string `json:"lead_id"`
}
