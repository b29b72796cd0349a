package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"repolens/internal/repostore"
)

type ReposHandler struct {
	store *repostore.Store
}

func NewReposHandler(store *repostore.Store) *ReposHandler {
	return &ReposHandler{store: store}
}

type saveRepoRequest struct {
	RepoURL      string `json:"repo_url"`
	RepoName     string `json:"repo_name"`
	RepoFullName string `json:"repo_full_name"`
	Description  string `json:"description"`
	Stars        int    `json:"stars"`
	Forks        int    `json:"forks"`
	Language     string `json:"language"`
	Overview     string `json:"overview"`
}

// HandleSave upserts a repository into the caller's saved list.
func (h *ReposHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req saveRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.RepoURL) == "" {
		writeError(w, http.StatusBadRequest, "repo_url is required")
		return
	}

	saved, err := h.store.Upsert(repostore.SavedRepo{
		UserID:       userID(r),
		RepoURL:      req.RepoURL,
		RepoName:     req.RepoName,
		RepoFullName: req.RepoFullName,
		Description:  req.Description,
		Stars:        req.Stars,
		Forks:        req.Forks,
		Language:     req.Language,
		Overview:     req.Overview,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.store.Save()
	writeJSON(w, http.StatusCreated, saved)
}

// HandleList returns the caller's saved repositories, newest first.
func (h *ReposHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	repos, total := h.store.ListByUser(userID(r), skip, limit)
	if repos == nil {
		repos = []repostore.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"repos": repos,
		"total": total,
	})
}

// HandleByID dispatches GET, DELETE and PATCH for a single saved repo.
// The route shape is /api/repos/{id} with an optional /overview suffix.
func (h *ReposHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/repos/"), "/")
	parts := strings.Split(rest, "/")
	id := strings.TrimSpace(parts[0])
	if id == "" {
		writeError(w, http.StatusBadRequest, "repository id is required")
		return
	}

	if len(parts) == 2 && parts[1] == "overview" && r.Method == http.MethodPatch {
		h.patchOverview(w, r, id)
		return
	}
	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "unknown route")
		return
	}

	switch r.Method {
	case http.MethodGet:
		repo, ok := h.store.Get(userID(r), id)
		if !ok {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		writeJSON(w, http.StatusOK, repo)
	case http.MethodDelete:
		if !h.store.Delete(userID(r), id) {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		h.store.Save()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *ReposHandler) patchOverview(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Overview string `json:"overview"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Overview == "" {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	repo, ok := h.store.SetOverview(userID(r), id, req.Overview)
	if !ok {
		writeError(w, http.StatusNotFound, "repository not found")
		return
	}
	h.store.Save()
	writeJSON(w, http.StatusOK, repo)
}
