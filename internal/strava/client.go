package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

// BaseURL is the Strava API v3 root.
const BaseURL = "https://www.strava.com/api/v3"

// PerPage is the page size used for activity listing. 200 is the maximum
// the API accepts.
const PerPage = 200

// APIError is a non-2xx response from the Strava API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Client is a Strava API client. All requests go through the rate
// limiter, which tracks Strava's 15-minute and daily windows from
// response headers.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a Strava API client. The token source supplies the
// bearer credential and is responsible for refreshing it.
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return NewClientWithBaseURL(tokenSource, BaseURL)
}

// NewClientWithBaseURL creates a client against a non-default API root,
// mainly for tests talking to a local server.
func NewClientWithBaseURL(tokenSource oauth2.TokenSource, baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// GetAthlete fetches the authenticated athlete's profile.
func (c *Client) GetAthlete(ctx context.Context) (*Athlete, error) {
	resp, err := c.get(ctx, "/athlete", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var athlete Athlete
	if err := json.NewDecoder(resp.Body).Decode(&athlete); err != nil {
		return nil, fmt.Errorf("decoding athlete: %w", err)
	}
	return &athlete, nil
}

// ListActivities fetches one page of the athlete's activities. An empty
// slice means the collection is exhausted.
func (c *Client) ListActivities(ctx context.Context, page, perPage int) ([]RawActivity, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, "/athlete/activities", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activities []RawActivity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decoding activities page %d: %w", page, err)
	}
	return activities, nil
}

// GetActivity fetches the detailed record for a single activity,
// including its photo metadata.
func (c *Client) GetActivity(ctx context.Context, activityID int64) (*ActivityDetail, error) {
	path := fmt.Sprintf("/activities/%d", activityID)
	resp, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var detail ActivityDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decoding activity %d: %w", activityID, err)
	}
	return &detail, nil
}

// RateLimitStatus returns the remaining request budget in each window.
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return resp, nil
}
