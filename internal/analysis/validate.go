package analysis

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/brandlift/partnerfit/internal/model"
)

// ValidateRequest checks the request shape and returns a copy with normalized
// profile handles. Duplicates are kept: they are processed independently.
func ValidateRequest(req model.BulkRequest, maxProfiles int) (model.BulkRequest, error) {
	if maxProfiles <= 0 {
		maxProfiles = 50
	}

	if len(req.Profiles) == 0 {
		return req, &ValidationError{Field: "profiles", Reason: "at least one profile is required"}
	}
	if len(req.Profiles) > maxProfiles {
		return req, &ValidationError{Field: "profiles", Reason: "too many profiles"}
	}
	if !req.AnalysisType.Valid() {
		return req, &ValidationError{Field: "analysis_type", Reason: "unsupported analysis type"}
	}
	if strings.TrimSpace(req.BusinessID) == "" {
		return req, &ValidationError{Field: "business_id", Reason: "business_id is required"}
	}
	if strings.TrimSpace(req.UserID) == "" {
		return req, &ValidationError{Field: "user_id", Reason: "user_id is required"}
	}

	normalized := make([]string, len(req.Profiles))
	for i, raw := range req.Profiles {
		h := NormalizeHandle(raw)
		if h == "" {
			return req, &ValidationError{Field: "profiles", Reason: "empty profile handle"}
		}
		normalized[i] = h
	}
	req.Profiles = normalized

	return req, nil
}

// NormalizeHandle canonicalizes a profile handle: NFKC fold, lowercase,
// whitespace and leading @ stripped.
func NormalizeHandle(raw string) string {
	h := norm.NFKC.String(strings.TrimSpace(raw))
	h = strings.TrimPrefix(h, "@")
	return strings.ToLower(h)
}
