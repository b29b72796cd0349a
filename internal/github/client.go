// Package github fetches repository metadata from the GitHub REST API.
// Every lookup degrades independently; a metadata failure must never abort
// an extraction.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"repolens/internal/cache/memory"
)

const baseURL = "https://api.github.com"

var ErrNotFound = errors.New("github: repository not found")

// Metadata is the subset of repository fields the API surfaces.
type Metadata struct {
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	OpenIssues    int      `json:"open_issues"`
	Watchers      int      `json:"watchers"`
	DefaultBranch string   `json:"default_branch"`
	Language      string   `json:"language"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	SizeKB        int      `json:"size_kb"`
	IsPrivate     bool     `json:"is_private"`
	Topics        []string `json:"topics"`
}

type Contributor struct {
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`
	Contributions int    `json:"contributions"`
	ProfileURL    string `json:"profile_url"`
}

type Branch struct {
	Name        string `json:"name"`
	IsProtected bool   `json:"is_protected"`
}

// Info bundles everything FetchAll gathers. Fields a lookup failed for
// stay at their zero value.
type Info struct {
	Metadata     *Metadata      `json:"metadata"`
	Contributors []Contributor  `json:"contributors"`
	Branches     []Branch       `json:"branches"`
	Languages    map[string]int `json:"languages"`
	BranchCount  int            `json:"branch_count"`
}

type Client struct {
	token string
	httpc *http.Client
	cache *memory.LRUTTL[string, []byte]
}

func NewClient(token string) *Client {
	return &Client{
		token: strings.TrimSpace(token),
		httpc: &http.Client{Timeout: 15 * time.Second},
		cache: memory.NewLRUTTL[string, []byte](256, 5*time.Minute),
	}
}

// ParseRepoURL extracts owner and repo from a github.com URL.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	clean := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")
	parts := strings.Split(clean, "/")
	if len(parts) < 5 || !strings.Contains(clean, "github.com") {
		return "", "", fmt.Errorf("github: invalid repository URL %q", repoURL)
	}
	owner = parts[len(parts)-2]
	repo = parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("github: invalid repository URL %q", repoURL)
	}
	return owner, repo, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if body, ok := c.cache.Get(url); ok {
		return json.Unmarshal(body, out)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("github: unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	c.cache.Set(url, body)
	return json.Unmarshal(body, out)
}

func (c *Client) Metadata(ctx context.Context, repoURL string) (*Metadata, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Name          string   `json:"name"`
		FullName      string   `json:"full_name"`
		Description   string   `json:"description"`
		Stars         int      `json:"stargazers_count"`
		Forks         int      `json:"forks_count"`
		OpenIssues    int      `json:"open_issues_count"`
		Watchers      int      `json:"watchers_count"`
		DefaultBranch string   `json:"default_branch"`
		Language      string   `json:"language"`
		CreatedAt     string   `json:"created_at"`
		UpdatedAt     string   `json:"updated_at"`
		Size          int      `json:"size"`
		Private       bool     `json:"private"`
		Topics        []string `json:"topics"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s", baseURL, owner, repo)
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}
	return &Metadata{
		Name:          raw.Name,
		FullName:      raw.FullName,
		Description:   raw.Description,
		Stars:         raw.Stars,
		Forks:         raw.Forks,
		OpenIssues:    raw.OpenIssues,
		Watchers:      raw.Watchers,
		DefaultBranch: raw.DefaultBranch,
		Language:      raw.Language,
		CreatedAt:     raw.CreatedAt,
		UpdatedAt:     raw.UpdatedAt,
		SizeKB:        raw.Size,
		IsPrivate:     raw.Private,
		Topics:        raw.Topics,
	}, nil
}

func (c *Client) Contributors(ctx context.Context, repoURL string, limit int) ([]Contributor, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	var raw []struct {
		Login         string `json:"login"`
		AvatarURL     string `json:"avatar_url"`
		Contributions int    `json:"contributions"`
		HTMLURL       string `json:"html_url"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/contributors?per_page=%d", baseURL, owner, repo, limit)
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}
	out := make([]Contributor, 0, len(raw))
	for _, r := range raw {
		out = append(out, Contributor{
			Username:      r.Login,
			AvatarURL:     r.AvatarURL,
			Contributions: r.Contributions,
			ProfileURL:    r.HTMLURL,
		})
	}
	return out, nil
}

func (c *Client) Branches(ctx context.Context, repoURL string) ([]Branch, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		Name      string `json:"name"`
		Protected bool   `json:"protected"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/branches?per_page=100", baseURL, owner, repo)
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}
	out := make([]Branch, 0, len(raw))
	for _, r := range raw {
		out = append(out, Branch{Name: r.Name, IsProtected: r.Protected})
	}
	return out, nil
}

func (c *Client) Languages(ctx context.Context, repoURL string) (map[string]int, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	out := map[string]int{}
	url := fmt.Sprintf("%s/repos/%s/%s/languages", baseURL, owner, repo)
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAll gathers metadata, contributors, branches and languages
// concurrently. Each lookup fails independently; the returned Info is
// never nil.
func (c *Client) FetchAll(ctx context.Context, repoURL string) *Info {
	info := &Info{
		Contributors: []Contributor{},
		Branches:     []Branch{},
		Languages:    map[string]int{},
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		if md, err := c.Metadata(ctx, repoURL); err == nil {
			info.Metadata = md
		}
	}()
	go func() {
		defer wg.Done()
		if cs, err := c.Contributors(ctx, repoURL, 10); err == nil {
			info.Contributors = cs
		}
	}()
	go func() {
		defer wg.Done()
		if bs, err := c.Branches(ctx, repoURL); err == nil {
			info.Branches = bs
		}
	}()
	go func() {
		defer wg.Done()
		if langs, err := c.Languages(ctx, repoURL); err == nil {
			info.Languages = langs
		}
	}()
	wg.Wait()

	info.BranchCount = len(info.Branches)
	return info
}
