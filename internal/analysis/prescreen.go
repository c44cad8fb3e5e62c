package analysis

import "github.com/brandlift/partnerfit/internal/model"

// PreScreenResult is a heuristic verdict produced without any paid AI call.
type PreScreenResult struct {
	Score   int
	Summary string
}

// preScreen applies cheap heuristics that can finalize a profile's score
// before any scoring call. Returns (result, true) when a rule fires; the
// pipeline then short-circuits straight to the scored state.
func preScreen(p model.Profile) (PreScreenResult, bool) {
	if p.FollowersCount == 0 {
		return PreScreenResult{
			Score:   0,
			Summary: "No followers; the account has no audience to offer a partnership.",
		}, true
	}

	if p.IsPrivate && p.FollowersCount < 1000 {
		return PreScreenResult{
			Score:   15,
			Summary: "Private account with a small following; content is not publicly reachable and the audience is too limited for partnership outreach.",
		}, true
	}

	if p.FollowersCount > 1000 && p.FollowingCount > 0 && p.FollowerRatio() < 0.1 {
		return PreScreenResult{
			Score:   20,
			Summary: "Follower-to-following ratio suggests bot or spam behavior; engagement quality is unlikely to support a brand partnership.",
		}, true
	}

	return PreScreenResult{}, false
}
