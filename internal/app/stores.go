package app

import (
	"fmt"
	"log"

	"repolens/internal/artifactstore"
	"repolens/internal/config"
)

// initArtifactStore picks S3 when the config is complete and falls back
// to the in-memory store otherwise.
func initArtifactStore(cfg *config.Config) (artifactstore.Store, error) {
	if cfg.Artifact.CanUseS3() {
		s3Store, err := artifactstore.NewS3Store(artifactstore.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize artifact s3 store: %w", err)
		}
		log.Printf("artifact store: s3 bucket=%s endpoint=%s", cfg.Artifact.Bucket, cfg.Artifact.Endpoint)
		return s3Store, nil
	}
	if cfg.Artifact.Enabled {
		log.Printf("artifact store: using in-memory fallback (s3 config incomplete)")
	}
	return artifactstore.NewMemoryStore(), nil
}
