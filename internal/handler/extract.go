package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"repolens/internal/archive"
	"repolens/internal/artifactstore"
	"repolens/internal/extract"
	"repolens/internal/github"
)

type ExtractHandler struct {
	svc       *extract.Service
	artifacts artifactstore.Store
}

func NewExtractHandler(svc *extract.Service, artifacts artifactstore.Store) *ExtractHandler {
	return &ExtractHandler{svc: svc, artifacts: artifacts}
}

// HandleExtract runs the full extraction pipeline for one repository
// and returns the analysis document.
func (h *ExtractHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
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

	doc, err := h.svc.Run(r.Context(), req, nil)
	if err != nil {
		status, msg := extractErrorStatus(err)
		writeError(w, status, msg)
		return
	}

	h.storePayload(r, req, doc)
	writeJSON(w, http.StatusOK, doc)
}

// storePayload archives the packed context for later reuse and stamps
// the analysis id on the document so clients can fetch it back through
// the artifacts endpoint. Failures only log; the response does not
// depend on the artifact store.
func (h *ExtractHandler) storePayload(r *http.Request, req extract.Request, doc *extract.Document) {
	if h.artifacts == nil || doc.Payload == "" {
		return
	}
	id := AnalysisID(req.GitHubURL, req.Branch)
	if err := h.artifacts.Put(r.Context(), id, "payload.txt", []byte(doc.Payload)); err != nil {
		log.Printf("extract: archive payload for %s: %v", req.GitHubURL, err)
		return
	}
	doc.ArtifactID = id
}

// AnalysisID derives a stable artifact key from the repo URL and branch.
func AnalysisID(githubURL, branch string) string {
	sum := sha256.Sum256([]byte(strings.TrimRight(githubURL, "/") + "@" + branch))
	return hex.EncodeToString(sum[:8])
}

func extractErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, extract.ErrRepoNotFound), errors.Is(err, github.ErrNotFound):
		return http.StatusNotFound, "repository not found; check the URL, branch, and token"
	case errors.Is(err, extract.ErrRepoTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, archive.ErrBadArchive):
		return http.StatusBadRequest, "downloaded file is not a valid zip"
	default:
		return http.StatusBadGateway, err.Error()
	}
}
