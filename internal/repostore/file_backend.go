package repostore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []SavedRepo
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeRepo(row)
			if n := parseSeq(id); n >= s.nextSeq {
				s.nextSeq = n + 1
			}
		}
	})
}

func parseSeq(id string) int {
	var n int
	if _, err := fmt.Sscanf(id, "repo-%d", &n); err != nil {
		return -1
	}
	return n
}

func (s *Store) saveFile() {
	s.ensureLoadedFile()
	s.mu.RLock()
	rows := make([]SavedRepo, 0, len(s.byID))
	for _, r := range s.byID {
		rows = append(rows, normalizeRepo(r))
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(userID, id string) (SavedRepo, bool) {
	s.ensureLoadedFile()
	s.mu.RLock()
	r, ok := s.byID[strings.TrimSpace(id)]
	s.mu.RUnlock()
	if !ok || r.UserID != strings.TrimSpace(userID) {
		return SavedRepo{}, false
	}
	return normalizeRepo(r), true
}

func (s *Store) upsertFile(r SavedRepo) (SavedRepo, error) {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.byID {
		if existing.UserID == r.UserID && existing.RepoURL == r.RepoURL {
			r.ID = id
			r.CreatedAt = existing.CreatedAt
			s.byID[id] = r
			return r, nil
		}
	}
	if r.ID == "" {
		r.ID = fmt.Sprintf("repo-%d", s.nextSeq)
		s.nextSeq++
	}
	s.byID[r.ID] = r
	return r, nil
}

func (s *Store) listByUserFile(userID string, skip, limit int) ([]Summary, int) {
	s.ensureLoadedFile()
	uid := strings.TrimSpace(userID)
	s.mu.RLock()
	all := make([]SavedRepo, 0, len(s.byID))
	for _, r := range s.byID {
		if r.UserID == uid {
			all = append(all, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if skip >= total {
		return []Summary{}, total
	}
	all = all[skip:]
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]Summary, 0, len(all))
	for _, r := range all {
		out = append(out, r.summary())
	}
	return out, total
}

func (s *Store) deleteFile(userID, id string) bool {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[strings.TrimSpace(id)]
	if !ok || r.UserID != strings.TrimSpace(userID) {
		return false
	}
	delete(s.byID, r.ID)
	return true
}

func (s *Store) setOverviewFile(userID, id, overview string) (SavedRepo, bool) {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[strings.TrimSpace(id)]
	if !ok || r.UserID != strings.TrimSpace(userID) {
		return SavedRepo{}, false
	}
	r.Overview = overview
	r.UpdatedAt = time.Now().UTC()
	s.byID[r.ID] = r
	return r, true
}
