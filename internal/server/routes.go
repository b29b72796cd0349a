package server

import (
	"net/http"

	"repolens/internal/handler"
	"repolens/internal/middleware"
)

func NewMux(
	extractHandler *handler.ExtractHandler,
	analyzeHandler *handler.AnalyzeHandler,
	reposHandler *handler.ReposHandler,
	watchHandler *handler.WatchHandler,
	artifactsHandler *handler.ArtifactsHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", handler.HandleHealth)

	mux.HandleFunc("/api/extract", extractHandler.HandleExtract)
	mux.HandleFunc("/api/analyze/full", analyzeHandler.HandleOverview)
	mux.HandleFunc("/api/watch", watchHandler.HandleWatch)
	mux.HandleFunc("/api/artifacts/", artifactsHandler.HandleArtifacts)

	mux.HandleFunc("/api/repos/save", reposHandler.HandleSave)
	mux.HandleFunc("/api/repos/list", reposHandler.HandleList)
	mux.HandleFunc("/api/repos/", reposHandler.HandleByID)

	return middleware.CORS(mux)
}
