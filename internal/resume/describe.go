package resume

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Kamar-Folarin/github-resume/internal/models"
)

const (
	defaultTechnologies = "Not specified"
	defaultDescription  = "No description provided"
	noReadmeExcerpt     = "No README available"

	excerptLines  = 3
	excerptMaxLen = 500
)

// readmeExcerpt derives a short structural excerpt from a README: the first
// few lines, whitespace-collapsed and truncated.
func readmeExcerpt(detail models.RepositoryDetail) string {
	if !detail.HasReadme {
		return noReadmeExcerpt
	}

	lines := strings.Split(detail.Readme, "\n")
	if len(lines) > excerptLines {
		lines = lines[:excerptLines]
	}

	excerpt := strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
	if excerpt == "" {
		return noReadmeExcerpt
	}
	if len(excerpt) > excerptMaxLen {
		// Back up to a rune boundary so truncation never splits a multi-byte
		// character.
		cut := excerptMaxLen
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
	}

	return excerpt
}

// technologies returns the repository's language names in a stable order.
func technologies(languages map[string]int64) []string {
	techs := make([]string, 0, len(languages))
	for lang := range languages {
		techs = append(techs, lang)
	}
	sort.Strings(techs)
	return techs
}

func technologyList(techs []string) string {
	if len(techs) == 0 {
		return defaultTechnologies
	}
	return strings.Join(techs, ", ")
}

// generatedDescription assembles the labeled-section form used when AI text
// is available.
func generatedDescription(aiText, techList, excerpt string) string {
	return fmt.Sprintf("Description: %s\nTechnologies: %s\nImplementation details: %s", aiText, techList, excerpt)
}

// fallbackDescription assembles the deterministic single-sentence form from
// the repository's own metadata.
func fallbackDescription(repo models.RepositorySummary, techList, excerpt string) string {
	description := strings.TrimSuffix(repo.Description, ".")
	if description == "" {
		description = defaultDescription
	}

	return fmt.Sprintf("%s: %s. Technologies: %s. Features: %s", repo.Name, description, techList, excerpt)
}
