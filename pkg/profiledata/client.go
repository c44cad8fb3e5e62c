package profiledata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.profilegraph.io"

// Sentinel errors reported by Fetch. Callers distinguish a missing profile
// (charged differently upstream) from transient provider trouble.
var (
	ErrNotFound    = errors.New("profiledata: profile not found")
	ErrRateLimited = errors.New("profiledata: rate limited")
	ErrMalformed   = errors.New("profiledata: malformed provider payload")
)

// Client fetches normalized profile attributes by handle.
type Client interface {
	Fetch(ctx context.Context, handle string) (*ProfileAttributes, error)
}

// ProfileAttributes is the normalized profile record returned by the provider.
type ProfileAttributes struct {
	Handle         string
	FullName       string
	Biography      string
	FollowersCount int
	FollowingCount int
	PostsCount     int
	IsPrivate      bool
	IsVerified     bool
	IsBusiness     bool
	Category       string
	ExternalURL    string
}

// wireProfile mirrors the provider's loosely-typed JSON. Every optional field
// is a pointer so absence is explicit and defaulted in one place.
type wireProfile struct {
	Username       *string `json:"username"`
	FullName       *string `json:"full_name"`
	Biography      *string `json:"biography"`
	FollowersCount *int    `json:"followers_count"`
	FollowingCount *int    `json:"following_count"`
	PostsCount     *int    `json:"posts_count"`
	IsPrivate      *bool   `json:"is_private"`
	IsVerified     *bool   `json:"is_verified"`
	IsBusiness     *bool   `json:"is_business_account"`
	Category       *string `json:"category_name"`
	ExternalURL    *string `json:"external_url"`
}

func (w wireProfile) toAttributes(handle string) *ProfileAttributes {
	attrs := &ProfileAttributes{Handle: handle}
	if w.Username != nil && *w.Username != "" {
		attrs.Handle = *w.Username
	}
	if w.FullName != nil {
		attrs.FullName = *w.FullName
	}
	if w.Biography != nil {
		attrs.Biography = *w.Biography
	}
	if w.FollowersCount != nil {
		attrs.FollowersCount = *w.FollowersCount
	}
	if w.FollowingCount != nil {
		attrs.FollowingCount = *w.FollowingCount
	}
	if w.PostsCount != nil {
		attrs.PostsCount = *w.PostsCount
	}
	if w.IsPrivate != nil {
		attrs.IsPrivate = *w.IsPrivate
	}
	if w.IsVerified != nil {
		attrs.IsVerified = *w.IsVerified
	}
	if w.IsBusiness != nil {
		attrs.IsBusiness = *w.IsBusiness
	}
	if w.Category != nil {
		attrs.Category = *w.Category
	}
	if w.ExternalURL != nil {
		attrs.ExternalURL = *w.ExternalURL
	}
	return attrs
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithRateLimit overrides the default requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	limiter *rate.Limiter
	http    *http.Client
}

// NewClient creates a profile data provider client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(10), 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Fetch(ctx context.Context, handle string) (*ProfileAttributes, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "profiledata: rate limiter")
	}

	url := fmt.Sprintf("%s/v1/profiles/%s", c.baseURL, handle)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "profiledata: create request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "profiledata: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "profiledata: read response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, eris.Errorf("profiledata: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var wire wireProfile
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, ErrMalformed
	}
	if wire.Username == nil && wire.FollowersCount == nil {
		// Provider occasionally returns 200 with an empty shell.
		return nil, ErrMalformed
	}

	return wire.toAttributes(handle), nil
}
