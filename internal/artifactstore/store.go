// Package artifactstore persists extraction artifacts (context
// payloads, analysis documents) keyed by analysis ID.
package artifactstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("artifact not found")

// Store defines operations for persisting analysis artifacts.
type Store interface {
	Put(ctx context.Context, analysisID, path string, content []byte) error
	Get(ctx context.Context, analysisID, path string) ([]byte, error)
	GetURL(ctx context.Context, analysisID, path string) (string, error)
	List(ctx context.Context, analysisID string) ([]string, error)
}

// artifactKey validates the id/path pair and joins them into the object
// key shared by every backend.
func artifactKey(analysisID, path string) (string, error) {
	analysisID = strings.TrimSpace(analysisID)
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if analysisID == "" {
		return "", fmt.Errorf("analysis_id is required")
	}
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	return analysisID + "/" + path, nil
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(_ context.Context, analysisID, path string, content []byte) error {
	key, err := artifactKey(analysisID, path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, analysisID, path string) ([]byte, error) {
	key, err := artifactKey(analysisID, path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) List(_ context.Context, analysisID string) ([]string, error) {
	analysisID = strings.TrimSpace(analysisID)
	if analysisID == "" {
		return nil, fmt.Errorf("analysis_id is required")
	}
	prefix := analysisID + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, 16)
	for key := range s.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) GetURL(_ context.Context, analysisID, path string) (string, error) {
	if _, err := artifactKey(analysisID, path); err != nil {
		return "", err
	}
	// no URL scheme for in-process storage; callers fall back to Get
	return "", nil
}
