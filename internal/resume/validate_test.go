package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Kamar-Folarin/github-resume/internal/errors"
)

func TestValidateUsername(t *testing.T) {
	t.Run("valid usernames", func(t *testing.T) {
		valid := []string{
			"ab",
			"a",
			"torvalds",
			"octo-cat",
			"a1b2c3",
			"x-1-y-2",
			strings.Repeat("a", 39),
			"  padded  ",
		}

		for _, username := range valid {
			trimmed, err := ValidateUsername(username)
			require.NoError(t, err, "expected %q to be valid", username)
			assert.Equal(t, strings.TrimSpace(username), trimmed)
		}
	})

	t.Run("empty and whitespace-only", func(t *testing.T) {
		for _, username := range []string{"", "   ", "\t\n"} {
			_, err := ValidateUsername(username)
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidInput(err))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "Username is required", appErr.Message)
		}
	})

	t.Run("invalid formats", func(t *testing.T) {
		invalid := []string{
			"-leading",
			"trailing-",
			"double--hyphen",
			"under_score",
			"dot.name",
			"space name",
			strings.Repeat("a", 40),
		}

		for _, username := range invalid {
			_, err := ValidateUsername(username)
			require.Error(t, err, "expected %q to be invalid", username)
			assert.True(t, apperrors.IsInvalidInput(err))
		}
	})
}
