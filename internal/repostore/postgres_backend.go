package repostore

import (
	"errors"
	"strings"
	"time"
)

var errScan = errors.New("repostore: row scan failed")

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE SEQUENCE IF NOT EXISTS saved_repos_seq;

CREATE TABLE IF NOT EXISTS saved_repos (
  id TEXT PRIMARY KEY DEFAULT ('repo-' || nextval('saved_repos_seq')),
  user_id TEXT NOT NULL,
  repo_url TEXT NOT NULL,
  repo_name TEXT NOT NULL DEFAULT 'Repository',
  repo_full_name TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  stars INTEGER NOT NULL DEFAULT 0,
  forks INTEGER NOT NULL DEFAULT 0,
  language TEXT NOT NULL DEFAULT '',
  overview TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  UNIQUE (user_id, repo_url)
);
CREATE INDEX IF NOT EXISTS idx_saved_repos_user_id ON saved_repos (user_id);
`)
	})
	return s.schemaErr
}

const repoColumns = `id, user_id, repo_url, repo_name, repo_full_name,
description, stars, forks, language, overview, created_at, updated_at`

func (s *Store) getDB(userID, id string) (SavedRepo, bool) {
	if err := s.ensureSchema(); err != nil {
		return SavedRepo{}, false
	}
	row := s.db.QueryRow(`SELECT `+repoColumns+`
FROM saved_repos WHERE id = $1 AND user_id = $2`,
		strings.TrimSpace(id), strings.TrimSpace(userID))
	return scanRepo(row)
}

func (s *Store) upsertDB(r SavedRepo) (SavedRepo, error) {
	if err := s.ensureSchema(); err != nil {
		return SavedRepo{}, err
	}
	row := s.db.QueryRow(`
INSERT INTO saved_repos (
  user_id, repo_url, repo_name, repo_full_name, description,
  stars, forks, language, overview, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (user_id, repo_url)
DO UPDATE SET repo_name=EXCLUDED.repo_name,
  repo_full_name=EXCLUDED.repo_full_name,
  description=EXCLUDED.description,
  stars=EXCLUDED.stars,
  forks=EXCLUDED.forks,
  language=EXCLUDED.language,
  overview=EXCLUDED.overview,
  updated_at=EXCLUDED.updated_at
RETURNING `+repoColumns,
		r.UserID, r.RepoURL, r.RepoName, r.RepoFullName, r.Description,
		r.Stars, r.Forks, r.Language, r.Overview, r.CreatedAt, r.UpdatedAt)
	out, ok := scanRepo(row)
	if !ok {
		return SavedRepo{}, errScan
	}
	return out, nil
}

func (s *Store) listByUserDB(userID string, skip, limit int) ([]Summary, int) {
	if err := s.ensureSchema(); err != nil {
		return nil, 0
	}
	uid := strings.TrimSpace(userID)

	var total int
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM saved_repos WHERE user_id = $1`, uid).Scan(&total)

	rows, err := s.db.Query(`SELECT `+repoColumns+`
FROM saved_repos WHERE user_id = $1
ORDER BY created_at DESC
OFFSET $2 LIMIT $3`, uid, skip, limit)
	if err != nil {
		return nil, total
	}
	defer rows.Close()

	out := make([]Summary, 0, limit)
	for rows.Next() {
		if r, ok := scanRepo(rows); ok {
			out = append(out, r.summary())
		}
	}
	return out, total
}

func (s *Store) deleteDB(userID, id string) bool {
	if err := s.ensureSchema(); err != nil {
		return false
	}
	res, err := s.db.Exec(`DELETE FROM saved_repos WHERE id = $1 AND user_id = $2`,
		strings.TrimSpace(id), strings.TrimSpace(userID))
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *Store) setOverviewDB(userID, id, overview string) (SavedRepo, bool) {
	if err := s.ensureSchema(); err != nil {
		return SavedRepo{}, false
	}
	row := s.db.QueryRow(`
UPDATE saved_repos SET overview = $3, updated_at = $4
WHERE id = $1 AND user_id = $2
RETURNING `+repoColumns,
		strings.TrimSpace(id), strings.TrimSpace(userID), overview, time.Now().UTC())
	return scanRepo(row)
}
