package model

// AnalysisType identifies the kind of analysis requested for a profile.
type AnalysisType string

// AnalysisTypeBrandFit is the only analysis type currently supported.
const AnalysisTypeBrandFit AnalysisType = "brand_fit"

// Valid reports whether t is a supported analysis type.
func (t AnalysisType) Valid() bool {
	return t == AnalysisTypeBrandFit
}

// BulkRequest is a request to analyze a set of profile handles for one user
// and business context. It exists only for the duration of the request.
type BulkRequest struct {
	Profiles     []string     `json:"profiles"`
	AnalysisType AnalysisType `json:"analysis_type"`
	BusinessID   string       `json:"business_id"`
	UserID       string       `json:"user_id"`
}

// Stage names a step of the per-profile analysis pipeline. A profile that
// fails records the stage it failed in.
type Stage string

const (
	StagePending     Stage = "pending"
	StageFetching    Stage = "fetching"
	StagePreScreened Stage = "pre_screened"
	StageScoring     Stage = "scoring"
	StageScored      Stage = "scored"
	StagePersisted   Stage = "persisted"
	StageAccounted   Stage = "accounted"
)

// FailReason classifies why a single profile's analysis failed.
type FailReason string

const (
	FailNotFound         FailReason = "not_found"
	FailRateLimited      FailReason = "rate_limited"
	FailProviderError    FailReason = "provider_error"
	FailMalformedProfile FailReason = "malformed_profile"
	FailScoringError     FailReason = "scoring_error"
	FailPersistence      FailReason = "persistence_error"
)

// ProfileSuccess is the successful outcome for one submitted handle.
type ProfileSuccess struct {
	Handle      string  `json:"profile"`
	Score       int     `json:"score"`
	Summary     string  `json:"summary"`
	Cost        float64 `json:"cost"`
	RunID       string  `json:"run_id"`
	PreScreened bool    `json:"pre_screened"`
	Degraded    bool    `json:"-"`
}

// ProfileFailure is the failed outcome for one submitted handle. The batch
// continues past individual failures; this row is the only trace.
type ProfileFailure struct {
	Handle string     `json:"profile"`
	Reason FailReason `json:"error"`
	Stage  Stage      `json:"-"`
	Detail string     `json:"-"`
}

// BulkResult aggregates every outcome of a bulk analysis. The invariant
// Successful+Failed == TotalRequested holds for all valid requests. Result
// order is not guaranteed to match request order.
type BulkResult struct {
	TotalRequested   int              `json:"total_requested"`
	Successful       int              `json:"successful"`
	Failed           int              `json:"failed"`
	Results          []ProfileSuccess `json:"results"`
	Errors           []ProfileFailure `json:"errors"`
	CreditsUsed      int64            `json:"credits_used"`
	CreditsRemaining int64            `json:"credits_remaining"`
	AvgCost          float64          `json:"avg_cost_per_analysis"`
	EfficiencyRatio  float64          `json:"efficiency_ratio"`
}
