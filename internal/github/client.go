package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/Kamar-Folarin/github-resume/internal/models"
)

// RateLimitInfo holds information about GitHub API rate limits
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
	// Secondary rate limit info from Retry-After
	SecondaryLimitReset time.Time
}

// Client is a client for the GitHub REST API operations the resume
// pipeline consumes: repository listing, languages and README content.
type Client struct {
	client   *http.Client
	token    string
	baseURL  string
	pageSize int
	logger   *logrus.Logger
	// mu guards rateLimitInfo; requests run concurrently on one client
	mu            sync.Mutex
	rateLimitInfo RateLimitInfo
	// Backoff configuration
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*Client)

// WithRetryConfig configures retry behavior
func WithRetryConfig(maxRetries int, initialBackoff, maxBackoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialBackoff = initialBackoff
		c.maxBackoff = maxBackoff
	}
}

// WithBaseURL overrides the GitHub API base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithPageSize sets the repository listing page size
func WithPageSize(pageSize int) ClientOption {
	return func(c *Client) {
		c.pageSize = pageSize
	}
}

// NewClient creates a new GitHub client with the given token and options
func NewClient(token string, logger *logrus.Logger, opts ...ClientOption) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 30 * time.Second

	client := &Client{
		client:         httpClient,
		token:          token,
		baseURL:        "https://api.github.com",
		pageSize:       10,
		logger:         logger,
		maxRetries:     3,
		initialBackoff: time.Second,
		maxBackoff:     time.Minute,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// updateRateLimitInfo updates the rate limit information from response headers
func (c *Client) updateRateLimitInfo(resp *http.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		c.rateLimitInfo.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		c.rateLimitInfo.Remaining, _ = strconv.Atoi(remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetTime, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.rateLimitInfo.ResetTime = time.Unix(resetTime, 0)
		}
	}
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if retrySeconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil {
			c.rateLimitInfo.SecondaryLimitReset = time.Now().Add(time.Duration(retrySeconds) * time.Second)
		}
	}
}

// currentRateLimitInfo returns a snapshot of the rate limit state.
func (c *Client) currentRateLimitInfo() RateLimitInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateLimitInfo
}

// doRequestWithBackoff performs an HTTP request with exponential backoff.
// Retries are limited to server errors and rate-limit responses; everything
// else is mapped to a typed error and returned immediately.
func (c *Client) doRequestWithBackoff(req *http.Request, result interface{}) error {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = NewGitHubError(0, "request failed", err)
			c.logger.Warnf("Request attempt %d failed: %v", attempt+1, err)
			time.Sleep(backoff)
			backoff = time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
			continue
		}

		c.updateRateLimitInfo(resp)

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = NewGitHubError(resp.StatusCode, "failed to read response body", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if result != nil {
				if err := json.Unmarshal(body, result); err != nil {
					return NewGitHubError(resp.StatusCode, "failed to decode response", err)
				}
			}
			return nil

		case resp.StatusCode == http.StatusUnauthorized:
			return &AuthenticationError{Message: strings.TrimSpace(string(body))}

		case resp.StatusCode == http.StatusTooManyRequests,
			resp.StatusCode == http.StatusForbidden && c.currentRateLimitInfo().Remaining == 0:
			info := c.currentRateLimitInfo()
			resetTime := info.ResetTime
			if !info.SecondaryLimitReset.IsZero() {
				resetTime = info.SecondaryLimitReset
			}
			lastErr = NewRateLimitError(resetTime, info.Limit, info.Remaining)
			if wait := time.Until(resetTime); wait > 0 && wait < backoff {
				time.Sleep(wait)
			} else {
				time.Sleep(backoff)
			}
			backoff = time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
			continue

		case resp.StatusCode >= 500:
			lastErr = NewGitHubError(resp.StatusCode, string(body), nil)
			time.Sleep(backoff)
			backoff = time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
			continue

		default:
			return NewGitHubError(resp.StatusCode, string(body), nil)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// ListRepositories lists a user's public repositories, newest-updated first,
// capped at the configured page size.
func (c *Client) ListRepositories(ctx context.Context, owner string) ([]models.RepositorySummary, error) {
	if owner == "" {
		return nil, NewValidationError("owner", "cannot be empty")
	}

	query := url.Values{}
	query.Set("sort", "updated")
	query.Set("per_page", strconv.Itoa(c.pageSize))
	reqURL := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, owner, query.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var repos []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Language    string `json:"language"`
		HTMLURL     string `json:"html_url"`
	}

	if err := c.doRequestWithBackoff(req, &repos); err != nil {
		if IsNotFoundError(err) {
			return nil, NewOwnerNotFoundError(owner)
		}
		return nil, err
	}

	result := make([]models.RepositorySummary, 0, len(repos))
	for _, r := range repos {
		result = append(result, models.RepositorySummary{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			HTMLURL:     r.HTMLURL,
		})
	}

	return result, nil
}

// GetLanguages returns the language byte-count breakdown for a repository.
// A 404 means GitHub detected no languages; that is an empty map, not an error.
func (c *Client) GetLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	if owner == "" {
		return nil, NewValidationError("owner", "cannot be empty")
	}
	if repo == "" {
		return nil, NewValidationError("repo", "cannot be empty")
	}

	reqURL := fmt.Sprintf("%s/repos/%s/%s/languages", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	languages := make(map[string]int64)
	if err := c.doRequestWithBackoff(req, &languages); err != nil {
		if IsNotFoundError(err) {
			return map[string]int64{}, nil
		}
		return nil, err
	}

	return languages, nil
}

// GetReadme returns the decoded README text for a repository. The second
// return value reports whether a README exists; a missing README is not an
// error.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, bool, error) {
	if owner == "" {
		return "", false, NewValidationError("owner", "cannot be empty")
	}
	if repo == "" {
		return "", false, NewValidationError("repo", "cannot be empty")
	}

	reqURL := fmt.Sprintf("%s/repos/%s/%s/readme", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}

	var readme struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}

	if err := c.doRequestWithBackoff(req, &readme); err != nil {
		if IsNotFoundError(err) {
			return "", false, nil
		}
		return "", false, err
	}

	if readme.Encoding != "base64" {
		return readme.Content, true, nil
	}

	// GitHub wraps base64 content with newlines
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(readme.Content, "\n", ""))
	if err != nil {
		return "", false, NewGitHubError(http.StatusOK, "failed to decode README content", err)
	}

	return string(decoded), true, nil
}
