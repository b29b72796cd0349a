package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"repolens/internal/extract"
	"repolens/internal/llm"
	"repolens/internal/tokens"
)

type AnalyzeHandler struct {
	svc *extract.Service
	llm llm.Client
}

func NewAnalyzeHandler(svc *extract.Service, client llm.Client) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, llm: client}
}

type overviewResponse struct {
	Status         string         `json:"status"`
	RepositoryName string         `json:"repository_name"`
	Overview       string         `json:"overview,omitempty"`
	Error          string         `json:"error,omitempty"`
	ContextStats   map[string]int `json:"context_stats,omitempty"`
}

// HandleOverview extracts the repository and asks the configured model
// for an onboarding overview. Extraction failures come back as a 200
// with status "error" so the frontend can render them inline.
func (h *AnalyzeHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req extract.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.GitHubURL) == "" {
		writeError(w, http.StatusBadRequest, "github_url is required")
		return
	}
	if h.llm == nil {
		writeError(w, http.StatusServiceUnavailable, "no text-generation provider configured")
		return
	}

	doc, err := h.svc.Run(r.Context(), req, nil)
	if err != nil {
		writeJSON(w, http.StatusOK, overviewResponse{
			Status:         "error",
			RepositoryName: req.GitHubURL,
			Error:          "extraction failed: " + err.Error(),
		})
		return
	}

	in := llm.OverviewInput{
		RepoName: req.GitHubURL,
		Payload:  doc.Payload,
	}
	if md := doc.GitHub.Metadata; md != nil {
		in.RepoName = md.FullName
		in.Description = md.Description
		in.Stars = md.Stars
		in.Forks = md.Forks
		in.UpdatedAt = md.UpdatedAt
	}
	prompt := llm.BuildOverviewPrompt(in)

	stats := map[string]int{
		"files_analyzed":          doc.Context.FilesInContext,
		"total_chars":             doc.PayloadChars,
		"estimated_tokens":        doc.Tokens,
		"prompt_chars":            len(prompt),
		"prompt_estimated_tokens": tokens.Estimate(prompt),
	}

	overview, err := h.llm.GenerateText(r.Context(), prompt)
	if err != nil {
		// extraction worked, only the overview is missing
		writeJSON(w, http.StatusOK, overviewResponse{
			Status:         "partial",
			RepositoryName: in.RepoName,
			Error:          err.Error(),
			ContextStats:   stats,
		})
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{
		Status:         "success",
		RepositoryName: in.RepoName,
		Overview:       overview,
		ContextStats:   stats,
	})
}
