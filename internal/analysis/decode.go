package analysis

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// maxSummaryLen bounds the scorer summary carried into results and storage.
const maxSummaryLen = 300

// DecodeStatus tags the outcome of decoding scorer output.
type DecodeStatus int

const (
	// DecodeOK means the strict structured decode succeeded.
	DecodeOK DecodeStatus = iota
	// DecodeDegraded means the strict decode failed but lenient pattern
	// extraction recovered a usable score.
	DecodeDegraded
	// DecodeErr means both decode stages failed.
	DecodeErr
)

// ScoreResult is the tagged result of decoding scorer output. A degraded
// decode is explicit, never a silent best guess.
type ScoreResult struct {
	Score   int
	Summary string
	Status  DecodeStatus
	Notes   string
}

var (
	scorePattern   = regexp.MustCompile(`"overall_score"\s*:\s*(-?\d+)`)
	summaryPattern = regexp.MustCompile(`"summary_text"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// decodeScoreResult runs the two-stage decode: strict JSON first, then
// lenient substring extraction from the raw text. Model output is routinely
// wrapped in prose or markdown fences, so the fallback earns its keep.
func decodeScoreResult(raw string) ScoreResult {
	cleaned := stripJSONWrapper(raw)

	var payload struct {
		OverallScore *int    `json:"overall_score"`
		SummaryText  *string `json:"summary_text"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil && payload.OverallScore != nil {
		summary := ""
		if payload.SummaryText != nil {
			summary = *payload.SummaryText
		}
		return ScoreResult{
			Score:   clampScore(*payload.OverallScore),
			Summary: truncateSummary(summary),
			Status:  DecodeOK,
		}
	}

	// Lenient stage: pull the fields straight out of the raw text.
	scoreMatch := scorePattern.FindStringSubmatch(raw)
	if scoreMatch == nil {
		return ScoreResult{Status: DecodeErr, Notes: "no overall_score found in scorer output"}
	}
	score, err := strconv.Atoi(scoreMatch[1])
	if err != nil {
		return ScoreResult{Status: DecodeErr, Notes: "unparsable overall_score in scorer output"}
	}

	summary := ""
	if m := summaryPattern.FindStringSubmatch(raw); m != nil {
		if unquoted, uErr := strconv.Unquote(`"` + m[1] + `"`); uErr == nil {
			summary = unquoted
		} else {
			summary = m[1]
		}
	}

	return ScoreResult{
		Score:   clampScore(score),
		Summary: truncateSummary(summary),
		Status:  DecodeDegraded,
		Notes:   "strict decode failed, score extracted from raw text",
	}
}

// stripJSONWrapper removes markdown fences and surrounding prose, keeping the
// outermost JSON object.
func stripJSONWrapper(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// truncateSummary caps the summary at maxSummaryLen runes without splitting a
// character.
func truncateSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSummaryLen {
		return s
	}
	return string(runes[:maxSummaryLen])
}
