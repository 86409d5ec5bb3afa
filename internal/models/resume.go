package models

import "time"

// RepositorySummary is one entry from the GitHub repository listing for a user.
type RepositorySummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	HTMLURL     string `json:"html_url"`
}

// RepositoryDetail holds the per-repository language breakdown and README text.
// Values are read-only snapshots once fetched; the cache hands them out as-is.
type RepositoryDetail struct {
	Languages map[string]int64 `json:"languages"`
	Readme    string           `json:"readme"`
	HasReadme bool             `json:"has_readme"`
}

// ProjectDescription is the per-repository entry in a generated resume.
type ProjectDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url,omitempty"`
}

// ResumeResult is the aggregate output of one resume generation.
// Projects preserve the order of the original repository listing.
type ResumeResult struct {
	Skills   map[string]int       `json:"skills"`
	Projects []ProjectDescription `json:"projects"`
}

// ResumeRecord is an archived resume as stored in the database.
type ResumeRecord struct {
	ID        int64        `json:"id"`
	Username  string       `json:"username"`
	Result    ResumeResult `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}
