package analysis

import (
	"fmt"

	"github.com/brandlift/partnerfit/internal/model"
)

const scoreSystemPrompt = `You evaluate social-media profiles for brand partnership fit. Score the profile from 0 (no fit) to 100 (ideal partner) considering audience size, audience quality, content category alignment with the business, and account credibility. Respond with a valid JSON object and nothing else: {"overall_score": <0-100 integer>, "summary_text": "<at most 300 characters explaining the score>"}`

const scoreUserPrompt = `Business context: %s

Profile:
- Handle: %s
- Name: %s
- Bio: %s
- Category: %s
- Followers: %d
- Following: %d
- Posts: %d
- Verified: %t
- Business account: %t
- External link: %s`

// buildScorePrompt renders the user prompt for one profile and business
// context reference.
func buildScorePrompt(p model.Profile, businessID string) string {
	return fmt.Sprintf(scoreUserPrompt,
		businessID,
		p.Handle,
		p.FullName,
		p.Biography,
		p.Category,
		p.FollowersCount,
		p.FollowingCount,
		p.PostsCount,
		p.IsVerified,
		p.IsBusiness,
		p.ExternalURL,
	)
}
