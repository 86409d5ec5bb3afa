package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	GitHubToken        string
	CodestralAPIKey    string
	CodestralBaseURL   string
	CodestralModel     string
	DBConnectionString string
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
	MaxRepos           int
}

func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	githubToken := getEnv("GITHUB_TOKEN", "")
	codestralKey := getEnv("CODESTRAL_API_KEY", "")
	codestralBaseURL := getEnv("CODESTRAL_BASE_URL", "https://codestral.mistral.ai/v1")
	codestralModel := getEnv("CODESTRAL_MODEL", "codestral-latest")
	dbConnStr := getEnv("DB_CONNECTION_STRING", "")

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "5"))
	if err != nil {
		return nil, err
	}

	cacheSweep, err := strconv.Atoi(getEnv("CACHE_SWEEP_MINUTES", "10"))
	if err != nil {
		return nil, err
	}

	maxRepos, err := strconv.Atoi(getEnv("MAX_REPOS", "10"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		GitHubToken:        githubToken,
		CodestralAPIKey:    codestralKey,
		CodestralBaseURL:   codestralBaseURL,
		CodestralModel:     codestralModel,
		DBConnectionString: dbConnStr,
		CacheTTL:           time.Duration(cacheTTL) * time.Minute,
		CacheSweepInterval: time.Duration(cacheSweep) * time.Minute,
		MaxRepos:           maxRepos,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
