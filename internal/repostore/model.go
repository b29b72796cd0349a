package repostore

import (
	"strings"
	"time"
)

// SavedRepo is an analyzed repository pinned to a user's profile.
type SavedRepo struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	RepoURL      string    `json:"repo_url"`
	RepoName     string    `json:"repo_name"`
	RepoFullName string    `json:"repo_full_name"`
	Description  string    `json:"description,omitempty"`
	Stars        int       `json:"stars"`
	Forks        int       `json:"forks"`
	Language     string    `json:"language,omitempty"`
	Overview     string    `json:"overview,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary is the listing projection of a SavedRepo.
type Summary struct {
	ID           string    `json:"id"`
	RepoURL      string    `json:"repo_url"`
	RepoName     string    `json:"repo_name"`
	RepoFullName string    `json:"repo_full_name"`
	Description  string    `json:"description,omitempty"`
	Stars        int       `json:"stars"`
	Forks        int       `json:"forks"`
	Language     string    `json:"language,omitempty"`
	HasOverview  bool      `json:"has_overview"`
	CreatedAt    time.Time `json:"created_at"`
}

func normalizeRepo(r SavedRepo) SavedRepo {
	r.ID = strings.TrimSpace(r.ID)
	r.UserID = strings.TrimSpace(r.UserID)
	r.RepoURL = strings.TrimSpace(r.RepoURL)
	r.RepoName = strings.TrimSpace(r.RepoName)
	if r.RepoName == "" {
		r.RepoName = "Repository"
	}
	return r
}

func (r SavedRepo) summary() Summary {
	return Summary{
		ID:           r.ID,
		RepoURL:      r.RepoURL,
		RepoName:     r.RepoName,
		RepoFullName: r.RepoFullName,
		Description:  r.Description,
		Stars:        r.Stars,
		Forks:        r.Forks,
		Language:     r.Language,
		HasOverview:  r.Overview != "",
		CreatedAt:    r.CreatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepo(row rowScanner) (SavedRepo, bool) {
	var r SavedRepo
	err := row.Scan(
		&r.ID, &r.UserID, &r.RepoURL, &r.RepoName, &r.RepoFullName,
		&r.Description, &r.Stars, &r.Forks, &r.Language, &r.Overview,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return SavedRepo{}, false
	}
	return normalizeRepo(r), true
}
