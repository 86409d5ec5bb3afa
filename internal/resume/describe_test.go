package resume

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/Kamar-Folarin/github-resume/internal/models"
)

func TestReadmeExcerpt(t *testing.T) {
	t.Run("first three lines, whitespace collapsed", func(t *testing.T) {
		detail := models.RepositoryDetail{
			Readme:    "# Demo\n\nA   demo\t project\nfourth line ignored",
			HasReadme: true,
		}

		assert.Equal(t, "# Demo A demo project", readmeExcerpt(detail))
	})

	t.Run("absent README", func(t *testing.T) {
		assert.Equal(t, "No README available", readmeExcerpt(models.RepositoryDetail{}))
	})

	t.Run("blank README", func(t *testing.T) {
		detail := models.RepositoryDetail{Readme: "   \n\n  ", HasReadme: true}
		assert.Equal(t, "No README available", readmeExcerpt(detail))
	})

	t.Run("truncated to 500 characters", func(t *testing.T) {
		detail := models.RepositoryDetail{
			Readme:    strings.Repeat("word ", 200),
			HasReadme: true,
		}

		excerpt := readmeExcerpt(detail)
		assert.Len(t, excerpt, 500)
	})

	t.Run("truncation keeps multi-byte runes intact", func(t *testing.T) {
		detail := models.RepositoryDetail{
			Readme:    "a" + strings.Repeat("п", 400),
			HasReadme: true,
		}

		excerpt := readmeExcerpt(detail)
		assert.True(t, utf8.ValidString(excerpt))
		assert.LessOrEqual(t, len(excerpt), 500)
	})
}

func TestTechnologies(t *testing.T) {
	languages := map[string]int64{"TypeScript": 1000, "CSS": 200, "Go": 50}
	assert.Equal(t, []string{"CSS", "Go", "TypeScript"}, technologies(languages))
	assert.Empty(t, technologies(nil))
}

func TestTechnologyList(t *testing.T) {
	assert.Equal(t, "CSS, TypeScript", technologyList([]string{"CSS", "TypeScript"}))
	assert.Equal(t, "Not specified", technologyList(nil))
}

func TestFallbackDescription(t *testing.T) {
	t.Run("uses repository description with trailing period stripped", func(t *testing.T) {
		repo := models.RepositorySummary{Name: "demo", Description: "A demo project."}

		got := fallbackDescription(repo, "TypeScript", "# Demo")
		assert.Equal(t, "demo: A demo project. Technologies: TypeScript. Features: # Demo", got)
	})

	t.Run("defaults when description is empty", func(t *testing.T) {
		repo := models.RepositorySummary{Name: "demo"}

		got := fallbackDescription(repo, "Not specified", "No README available")
		assert.Equal(t, "demo: No description provided. Technologies: Not specified. Features: No README available", got)
	})
}

func TestGeneratedDescription(t *testing.T) {
	got := generatedDescription("An AI paragraph.", "Go", "# Demo")
	assert.Equal(t, "Description: An AI paragraph.\nTechnologies: Go\nImplementation details: # Demo", got)
}
