package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error types for GitHub client operations
type GitHubError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GitHubError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GitHub API error (status %d): %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *GitHubError) Unwrap() error {
	return e.Err
}

// RateLimitError represents when we hit GitHub's rate limits
type RateLimitError struct {
	ResetTime time.Time
	Limit     int
	Remaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded. Reset at %v. Limit: %d, Remaining: %d",
		e.ResetTime, e.Limit, e.Remaining)
}

// ValidationError represents invalid input to GitHub client methods
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: invalid %s: %s", e.Field, e.Value)
}

// OwnerNotFoundError represents when a GitHub account cannot be found
type OwnerNotFoundError struct {
	Owner string
}

func (e *OwnerNotFoundError) Error() string {
	return fmt.Sprintf("GitHub user not found: %s", e.Owner)
}

// AuthenticationError represents a missing or rejected GitHub credential
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("GitHub authentication failed: %s", e.Message)
}

// NewGitHubError creates a new GitHubError with the given status code and message
func NewGitHubError(statusCode int, message string, err error) error {
	return &GitHubError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(resetTime time.Time, limit, remaining int) error {
	return &RateLimitError{
		ResetTime: resetTime,
		Limit:     limit,
		Remaining: remaining,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, value string) error {
	return &ValidationError{
		Field: field,
		Value: value,
	}
}

// NewOwnerNotFoundError creates a new OwnerNotFoundError
func NewOwnerNotFoundError(owner string) error {
	return &OwnerNotFoundError{Owner: owner}
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// IsNotFoundError checks if an error represents an upstream 404
func IsNotFoundError(err error) bool {
	var ownerErr *OwnerNotFoundError
	if errors.As(err, &ownerErr) {
		return true
	}
	var ghErr *GitHubError
	return errors.As(err, &ghErr) && ghErr.StatusCode == http.StatusNotFound
}

// IsAuthenticationError checks if an error represents a credential failure
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
