package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"context"

	"golang.org/x/time/rate"

	"mindshare/internal/metrics"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

const searchEndpoint = "https://api.twitter.com/2/tweets/search/recent"

// Client is a minimal Twitter API v2 recent-search client with built-in
// rate limiting. Only the fields the scoring pipeline consumes are decoded.
type Client struct {
	httpClient  *http.Client
	bearerToken string
	limiter     *rate.Limiter
	maxResults  int
	log         *logger.Logger
}

// Config contains Twitter client configuration
type Config struct {
	BearerToken       string
	RequestsPerMinute int
	MaxResults        int
}

// NewClient creates a new Twitter API client
func NewClient(cfg Config) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := rpm / 10
	if burst < 1 {
		burst = 1
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 || maxResults > 100 {
		maxResults = 100
	}

	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		bearerToken: cfg.BearerToken,
		limiter:     rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
		maxResults:  maxResults,
		log:         logger.Get().With("component", "twitter_client"),
	}
}

// Configured reports whether a bearer token is available
func (c *Client) Configured() bool {
	return c.bearerToken != ""
}

// Tweet is one decoded tweet from the search response
type Tweet struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	AuthorID  string        `json:"author_id"`
	CreatedAt string        `json:"created_at"`
	Metrics   PublicMetrics `json:"public_metrics"`

	// AuthorUsername is resolved from the response includes
	AuthorUsername string `json:"-"`
}

// PublicMetrics carries the engagement counters of one tweet
type PublicMetrics struct {
	RetweetCount int64 `json:"retweet_count"`
	LikeCount    int64 `json:"like_count"`
	ReplyCount   int64 `json:"reply_count"`
	QuoteCount   int64 `json:"quote_count"`
}

type searchResponse struct {
	Data     []Tweet `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

// SearchRecent fetches recent tweets matching the query. Rate limiting is
// applied before the request; a 429 from the API maps to
// errors.ErrRateLimitExceeded so callers can back off.
func (c *Client) SearchRecent(ctx context.Context, query string) (tweets []Tweet, err error) {
	if !c.Configured() {
		return nil, errors.Wrap(errors.ErrUnavailable, "twitter bearer token not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "twitter rate limiter")
	}

	// Measured after the limiter wait so latency reflects the API, not
	// our own throttling
	start := time.Now()
	defer func() {
		metrics.RecordTwitterAPICall("recent_search", time.Since(start), err)
	}()

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", fmt.Sprintf("%d", c.maxResults))
	params.Set("tweet.fields", "created_at,public_metrics,author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create twitter API request")
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("User-Agent", "mindshare/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSourceUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.Wrap(errors.ErrRateLimitExceeded, "twitter API")
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Newf("twitter API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "decode twitter API response")
	}

	// Resolve author usernames from the expansion payload
	usernames := make(map[string]string, len(response.Includes.Users))
	for _, u := range response.Includes.Users {
		usernames[u.ID] = u.Username
	}
	for i := range response.Data {
		response.Data[i].AuthorUsername = usernames[response.Data[i].AuthorID]
	}

	c.log.Debugf("Fetched %d tweets for query %q", len(response.Data), query)
	return response.Data, nil
}
