// Package extract orchestrates a full repository extraction: download
// the archive, analyze its files, and shape the response document.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"repolens/internal/analyzer"
	"repolens/internal/archive"
	"repolens/internal/github"
)

var (
	ErrRepoNotFound = errors.New("extract: repository not found")
	ErrRepoTooLarge = errors.New("extract: repository exceeds size limit")
)

// Request identifies one repository extraction.
type Request struct {
	GitHubURL string `json:"github_url"`
	Branch    string `json:"branch"`
	Token     string `json:"token,omitempty"`
}

// Progress reports pipeline stages to an observer, e.g. a websocket.
// Implementations must tolerate being called from the request goroutine.
type Progress func(stage, detail string)

type Service struct {
	httpc        *http.Client
	maxRepoBytes int64
	token        string
}

func NewService(githubToken string, maxRepoMB int) *Service {
	if maxRepoMB <= 0 {
		maxRepoMB = 50
	}
	return &Service{
		httpc:        &http.Client{Timeout: 2 * time.Minute},
		maxRepoBytes: int64(maxRepoMB) * 1024 * 1024,
		token:        githubToken,
	}
}

func buildZipURL(githubURL, branch string) string {
	clean := strings.TrimRight(githubURL, "/")
	return fmt.Sprintf("%s/archive/refs/heads/%s.zip", clean, branch)
}

// download fetches the branch archive, rejecting oversized repos before
// the body is read whenever the server declares a Content-Length.
func (s *Service) download(ctx context.Context, req Request) ([]byte, error) {
	zipURL := buildZipURL(req.GitHubURL, req.Branch)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, zipURL, nil)
	if err != nil {
		return nil, err
	}
	token := firstNonEmpty(req.Token, s.token)
	if token != "" {
		httpReq.Header.Set("Authorization", "token "+token)
	}

	resp, err := s.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("extract: download archive: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrRepoNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("extract: github returned status %d", resp.StatusCode)
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n > s.maxRepoBytes {
			return nil, fmt.Errorf("%w: %s declared, limit %s",
				ErrRepoTooLarge, formatBytes(n), formatBytes(s.maxRepoBytes))
		}
	}

	// the declared length can lie; cap the actual read too
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxRepoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("extract: read archive body: %w", err)
	}
	if int64(len(body)) > s.maxRepoBytes {
		return nil, fmt.Errorf("%w: body larger than %s", ErrRepoTooLarge, formatBytes(s.maxRepoBytes))
	}
	return body, nil
}

// Run downloads and analyzes the repository. GitHub metadata is fetched
// concurrently with the archive download; metadata failures degrade to
// empty fields and never abort the extraction.
func (s *Service) Run(ctx context.Context, req Request, progress Progress) (*Document, error) {
	if progress == nil {
		progress = func(string, string) {}
	}
	if req.Branch == "" {
		req.Branch = "main"
	}

	gh := github.NewClient(firstNonEmpty(req.Token, s.token))
	infoCh := make(chan *github.Info, 1)
	go func() {
		infoCh <- gh.FetchAll(ctx, req.GitHubURL)
	}()

	progress("download", req.GitHubURL)
	start := time.Now()
	data, err := s.download(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Printf("extract: downloaded %s in %s (%s)", req.GitHubURL, time.Since(start).Round(time.Millisecond), formatBytes(int64(len(data))))

	progress("analyze", formatBytes(int64(len(data))))
	src, err := archive.OpenZip(data)
	if err != nil {
		return nil, err
	}
	result, err := analyzer.New(nil, nil).Run(src)
	if err != nil {
		return nil, err
	}

	progress("metadata", "")
	info := <-infoCh

	progress("done", "")
	return buildDocument(req, info, result), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
