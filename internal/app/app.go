// Package app wires configuration, stores, services and routing into a
// runnable API server.
package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"repolens/internal/config"
	"repolens/internal/extract"
	"repolens/internal/handler"
	"repolens/internal/llm"
	"repolens/internal/repostore"
	"repolens/internal/server"
)

type App struct {
	server *server.Server
	llm    llm.Client
	repos  *repostore.Store
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Stores
	repos := repostore.NewFromEnv(filepath.Join("tmp", "saved_repos.json"))
	repos.EnsureLoaded()
	artifacts, err := initArtifactStore(cfg)
	if err != nil {
		return nil, err
	}

	// Services
	extractSvc := extract.NewService(cfg.GitHubToken, cfg.MaxRepoMB)
	var llmClient llm.Client
	if cfg.LLM.APIKey != "" {
		llmClient, err = llm.New(ctx, llm.Config{
			Provider: cfg.LLM.Provider,
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init llm client: %w", err)
		}
		log.Printf("llm provider: %s", llmClient.Name())
	} else {
		log.Printf("llm provider: disabled (no api key)")
	}

	// Handlers, routing, server
	mux := server.NewMux(
		handler.NewExtractHandler(extractSvc, artifacts),
		handler.NewAnalyzeHandler(extractSvc, llmClient),
		handler.NewReposHandler(repos),
		handler.NewWatchHandler(extractSvc),
		handler.NewArtifactsHandler(artifacts),
	)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		llm:    llmClient,
		repos:  repos,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.repos.Save()
	if a.llm != nil {
		_ = a.llm.Close()
	}
	return a.server.Shutdown(ctx)
}
