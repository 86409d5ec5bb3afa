package resume

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Kamar-Folarin/github-resume/internal/cache"
	"github.com/Kamar-Folarin/github-resume/internal/generator"
	"github.com/Kamar-Folarin/github-resume/internal/models"
)

// ErrNoRepositories is returned when the account exists but has no public
// repositories. The boundary maps it to a 404 response.
var ErrNoRepositories = errors.New("no public repositories found")

// ProviderClient is the subset of the GitHub client the pipeline consumes
type ProviderClient interface {
	ListRepositories(ctx context.Context, owner string) ([]models.RepositorySummary, error)
	GetLanguages(ctx context.Context, owner, repo string) (map[string]int64, error)
	GetReadme(ctx context.Context, owner, repo string) (string, bool, error)
}

// DescriptionGenerator produces a natural-language paragraph for a project
type DescriptionGenerator interface {
	Generate(ctx context.Context, project generator.ProjectMetadata) (string, error)
}

// Service orchestrates resume generation: validate the username, list
// repositories, fan out cache-aware detail fetches, aggregate language usage
// into skill percentages and build one project description per repository.
type Service struct {
	provider      ProviderClient
	cache         *cache.DetailCache
	generator     DescriptionGenerator
	logger        *logrus.Logger
	maxConcurrent int
}

// NewService creates a resume service. The generator may be nil when the
// description provider is unconfigured; descriptions then fall back to the
// repository's own metadata.
func NewService(provider ProviderClient, detailCache *cache.DetailCache, gen DescriptionGenerator, logger *logrus.Logger, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		provider:      provider,
		cache:         detailCache,
		generator:     gen,
		logger:        logger,
		maxConcurrent: maxConcurrent,
	}
}

// GenerateResume runs the full aggregation pipeline for one username.
// Validation and listing failures abort the request; everything downstream
// degrades per-repository and never fails the batch.
func (s *Service) GenerateResume(ctx context.Context, username string) (*models.ResumeResult, error) {
	owner, err := ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	repos, err := s.provider.ListRepositories(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, ErrNoRepositories
	}

	details := s.fetchDetails(ctx, owner, repos)
	skills := aggregateSkills(details, len(repos))
	projects := s.buildProjects(ctx, repos, details)

	s.logger.WithFields(logrus.Fields{
		"username":     owner,
		"repositories": len(repos),
		"skills":       len(skills),
	}).Info("Generated resume")

	return &models.ResumeResult{
		Skills:   skills,
		Projects: projects,
	}, nil
}

// fetchDetails fans out one cache-aware detail fetch per repository and
// reassembles the results in listing order regardless of completion order.
func (s *Service) fetchDetails(ctx context.Context, owner string, repos []models.RepositorySummary) []models.RepositoryDetail {
	details := make([]models.RepositoryDetail, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			details[i] = s.fetchDetail(gctx, owner, repo.Name)
			return nil
		})
	}

	// Sub-fetches degrade instead of failing, so the group never errors.
	_ = g.Wait()

	return details
}

// fetchDetail returns the cached detail for a repository or fetches languages
// and README concurrently on a miss. Either sub-fetch failing degrades that
// side to empty rather than failing the repository.
func (s *Service) fetchDetail(ctx context.Context, owner, repo string) models.RepositoryDetail {
	if detail, ok := s.cache.Get(owner, repo); ok {
		return detail
	}

	var (
		languages map[string]int64
		readme    string
		hasReadme bool
		langsErr  bool
		readmeErr bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		langs, err := s.provider.GetLanguages(gctx, owner, repo)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"operation":  "get_languages",
				"repository": owner + "/" + repo,
			}).Warnf("Failed to fetch languages, degrading to empty: %v", err)
			langsErr = true
			langs = map[string]int64{}
		}
		languages = langs
		return nil
	})

	g.Go(func() error {
		text, ok, err := s.provider.GetReadme(gctx, owner, repo)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"operation":  "get_readme",
				"repository": owner + "/" + repo,
			}).Warnf("Failed to fetch README, degrading to absent: %v", err)
			readmeErr = true
			return nil
		}
		readme = text
		hasReadme = ok
		return nil
	})

	_ = g.Wait()

	detail := models.RepositoryDetail{
		Languages: languages,
		Readme:    readme,
		HasReadme: hasReadme,
	}

	// A degraded detail is never cached, so a transient upstream failure
	// clears on the next request instead of persisting for a full TTL.
	if !langsErr && !readmeErr {
		s.cache.Set(owner, repo, detail)
	}
	return detail
}

// aggregateSkills counts language presence across repositories (one
// occurrence per language per repository) and converts each count to a
// percentage of the total repository count.
func aggregateSkills(details []models.RepositoryDetail, totalRepos int) map[string]int {
	counts := make(map[string]int)
	for _, detail := range details {
		for lang := range detail.Languages {
			counts[lang]++
		}
	}

	skills := make(map[string]int, len(counts))
	for lang, count := range counts {
		skills[lang] = int(math.Round(float64(count) / float64(totalRepos) * 100))
	}

	return skills
}

// buildProjects builds one description per repository, invoking the generator
// independently per repository so one failure cannot affect another.
func (s *Service) buildProjects(ctx context.Context, repos []models.RepositorySummary, details []models.RepositoryDetail) []models.ProjectDescription {
	projects := make([]models.ProjectDescription, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i := range repos {
		i := i
		g.Go(func() error {
			projects[i] = s.buildProject(gctx, repos[i], details[i])
			return nil
		})
	}

	_ = g.Wait()

	return projects
}

func (s *Service) buildProject(ctx context.Context, repo models.RepositorySummary, detail models.RepositoryDetail) models.ProjectDescription {
	excerpt := readmeExcerpt(detail)
	techs := technologies(detail.Languages)
	techList := technologyList(techs)

	description := ""
	if s.generator != nil {
		text, err := s.generator.Generate(ctx, generator.ProjectMetadata{
			Name:         repo.Name,
			Technologies: techs,
			Structure:    excerpt,
		})
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"operation":  "generate_description",
				"repository": repo.Name,
			}).Warnf("Description generation failed, using fallback: %v", err)
		} else {
			description = generatedDescription(text, techList, excerpt)
		}
	}

	if description == "" {
		description = fallbackDescription(repo, techList, excerpt)
	}

	return models.ProjectDescription{
		Name:        repo.Name,
		Description: description,
		SourceURL:   repo.HTMLURL,
	}
}
