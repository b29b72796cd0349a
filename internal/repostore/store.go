// Package repostore persists saved repositories. It runs against a
// local JSON file by default and switches to Postgres when
// REPO_STORE_PG_DSN is set.
package repostore

import (
	"database/sql"
	"os"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]SavedRepo
	nextSeq  int

	schemaOnce sync.Once
	schemaErr  error

	// read-through cache over Get, shared by both backends
	cache *lru.Cache[string, SavedRepo]
}

func New(path string) *Store {
	c, _ := lru.New[string, SavedRepo](128)
	return &Store{
		path:  path,
		byID:  make(map[string]SavedRepo),
		cache: c,
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	c, _ := lru.New[string, SavedRepo](128)
	return &Store{db: db, cache: c}, nil
}

func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("REPO_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) EnsureLoaded() {
	if s == nil {
		return
	}
	if s.db != nil {
		_ = s.ensureSchema()
		return
	}
	s.ensureLoadedFile()
}

// Save flushes the file backend to disk. A no-op under Postgres.
func (s *Store) Save() {
	if s == nil || s.db != nil {
		return
	}
	s.saveFile()
}

func (s *Store) Get(userID, id string) (SavedRepo, bool) {
	if s == nil {
		return SavedRepo{}, false
	}
	key := userID + "\x00" + id
	if r, ok := s.cache.Get(key); ok {
		return r, true
	}
	var (
		r  SavedRepo
		ok bool
	)
	if s.db != nil {
		r, ok = s.getDB(userID, id)
	} else {
		r, ok = s.getFile(userID, id)
	}
	if ok {
		s.cache.Add(key, r)
	}
	return r, ok
}

// Upsert saves the repo, replacing an existing entry for the same
// user and repo URL while keeping its original creation time.
func (s *Store) Upsert(r SavedRepo) (SavedRepo, error) {
	if s == nil {
		return SavedRepo{}, nil
	}
	now := time.Now().UTC()
	r = normalizeRepo(r)
	r.UpdatedAt = now
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	var (
		out SavedRepo
		err error
	)
	if s.db != nil {
		out, err = s.upsertDB(r)
	} else {
		out, err = s.upsertFile(r)
	}
	if err == nil {
		s.cache.Add(out.UserID+"\x00"+out.ID, out)
	}
	return out, err
}

func (s *Store) ListByUser(userID string, skip, limit int) ([]Summary, int) {
	if s == nil {
		return nil, 0
	}
	if limit <= 0 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	if s.db != nil {
		return s.listByUserDB(userID, skip, limit)
	}
	return s.listByUserFile(userID, skip, limit)
}

func (s *Store) Delete(userID, id string) bool {
	if s == nil {
		return false
	}
	s.cache.Remove(userID + "\x00" + id)
	if s.db != nil {
		return s.deleteDB(userID, id)
	}
	return s.deleteFile(userID, id)
}

// SetOverview attaches a generated overview to a saved repo.
func (s *Store) SetOverview(userID, id, overview string) (SavedRepo, bool) {
	if s == nil {
		return SavedRepo{}, false
	}
	s.cache.Remove(userID + "\x00" + id)
	if s.db != nil {
		return s.setOverviewDB(userID, id, overview)
	}
	return s.setOverviewFile(userID, id, overview)
}
