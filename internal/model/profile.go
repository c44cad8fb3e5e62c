package model

import "time"

// Profile holds normalized attributes for a social-media profile as returned
// by the profile data provider. Optional provider fields are defaulted at
// decode time so downstream code never probes for missing keys.
type Profile struct {
	Handle         string    `json:"handle"`
	FullName       string    `json:"full_name"`
	Biography      string    `json:"biography"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	PostsCount     int       `json:"posts_count"`
	IsPrivate      bool      `json:"is_private"`
	IsVerified     bool      `json:"is_verified"`
	IsBusiness     bool      `json:"is_business"`
	Category       string    `json:"category"`
	ExternalURL    string    `json:"external_url"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// FollowerRatio returns followers/following, or 0 when the profile follows
// nobody (a zero denominator would otherwise read as +Inf).
func (p Profile) FollowerRatio() float64 {
	if p.FollowingCount == 0 {
		return 0
	}
	return float64(p.FollowersCount) / float64(p.FollowingCount)
}
