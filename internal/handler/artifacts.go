package handler

import (
	"errors"
	"net/http"
	"strings"

	"repolens/internal/artifactstore"
)

type ArtifactsHandler struct {
	store artifactstore.Store
}

func NewArtifactsHandler(store artifactstore.Store) *ArtifactsHandler {
	return &ArtifactsHandler{store: store}
}

// HandleArtifacts serves archived extraction artifacts.
// GET /api/artifacts/{analysis-id} lists the stored paths,
// GET /api/artifacts/{analysis-id}/{path} returns one artifact, either
// as a redirect to a presigned URL or as the raw bytes.
func (h *ArtifactsHandler) HandleArtifacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "artifact store not configured")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/artifacts/"), "/")
	id, path, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}

	if path == "" {
		paths, err := h.store.List(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"analysis_id": id,
			"artifacts":   paths,
		})
		return
	}

	if url, err := h.store.GetURL(r.Context(), id, path); err == nil && url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	data, err := h.store.Get(r.Context(), id, path)
	if errors.Is(err, artifactstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "artifact not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", artifactstore.ContentTypeFor(path))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
