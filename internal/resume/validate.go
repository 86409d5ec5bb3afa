package resume

import (
	"regexp"
	"strings"

	apperrors "github.com/Kamar-Folarin/github-resume/internal/errors"
)

const maxUsernameLength = 39

// GitHub usernames: alphanumeric with single interior hyphens, no leading,
// trailing or consecutive hyphens.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9])*$`)

// ValidateUsername trims and validates a GitHub username against GitHub's
// username grammar. Validation happens before any network call is made.
func ValidateUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", apperrors.NewValidationError("Username is required", nil)
	}

	if len(trimmed) > maxUsernameLength || !usernamePattern.MatchString(trimmed) {
		return "", apperrors.NewValidationError("Username must be 1-39 alphanumeric characters with single interior hyphens", nil)
	}

	return trimmed, nil
}
