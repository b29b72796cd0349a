package repostore

import (
	"path/filepath"
	"testing"
)

func newFileStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "saved_repos.json"))
}

func TestUpsertAssignsID(t *testing.T) {
	s := newFileStore(t)
	saved, err := s.Upsert(SavedRepo{UserID: "u1", RepoURL: "https://github.com/a/b", RepoName: "b"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("id must be assigned")
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Fatal("timestamps must be set")
	}
}

func TestUpsertReplacesSameURL(t *testing.T) {
	s := newFileStore(t)
	first, _ := s.Upsert(SavedRepo{UserID: "u1", RepoURL: "https://github.com/a/b", Stars: 1})
	second, err := s.Upsert(SavedRepo{UserID: "u1", RepoURL: "https://github.com/a/b", Stars: 99})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("id changed: %s -> %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("created_at must survive updates")
	}
	if second.Stars != 99 {
		t.Fatalf("stars %d", second.Stars)
	}

	_, total := s.ListByUser("u1", 0, 10)
	if total != 1 {
		t.Fatalf("total %d", total)
	}
}

func TestGetScopedToUser(t *testing.T) {
	s := newFileStore(t)
	saved, _ := s.Upsert(SavedRepo{UserID: "u1", RepoURL: "https://github.com/a/b"})

	if _, ok := s.Get("u1", saved.ID); !ok {
		t.Fatal("owner must see the repo")
	}
	if _, ok := s.Get("u2", saved.ID); ok {
		t.Fatal("other users must not see the repo")
	}
}

func TestListPagination(t *testing.T) {
	s := newFileStore(t)
	for _, url := range []string{"r1", "r2", "r3"} {
		if _, err := s.Upsert(SavedRepo{UserID: "u1", RepoURL: url}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	page, total := s.ListByUser("u1", 1, 1)
	if total != 3 {
		t.Fatalf("total %d", total)
	}
	if len(page) != 1 {
		t.Fatalf("page len %d", len(page))
	}
	empty, _ := s.ListByUser("u1", 10, 5)
	if len(empty) != 0 {
		t.Fatalf("past-the-end page len %d", len(empty))
	}
}

func TestDelete(t *testing.T) {
	s := newFileStore(t)
	saved, _ := s.Upsert(SavedRepo{UserID: "u1", RepoURL: "r"})
	if !s.Delete("u1", saved.ID) {
		t.Fatal("delete should succeed")
	}
	if s.Delete("u1", saved.ID) {
		t.Fatal("double delete should fail")
	}
	if _, ok := s.Get("u1", saved.ID); ok {
		t.Fatal("deleted repo must be gone")
	}
}

func TestSetOverview(t *testing.T) {
	s := newFileStore(t)
	saved, _ := s.Upsert(SavedRepo{UserID: "u1", RepoURL: "r"})
	updated, ok := s.SetOverview("u1", saved.ID, "## Overview")
	if !ok {
		t.Fatal("set overview should succeed")
	}
	if updated.Overview != "## Overview" {
		t.Fatalf("overview %q", updated.Overview)
	}
	got, _ := s.Get("u1", saved.ID)
	if !got.summary().HasOverview {
		t.Fatal("summary must reflect the overview")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.json")
	s := New(path)
	saved, _ := s.Upsert(SavedRepo{UserID: "u1", RepoURL: "https://github.com/a/b", RepoName: "b"})
	s.Save()

	reloaded := New(path)
	got, ok := reloaded.Get("u1", saved.ID)
	if !ok {
		t.Fatal("repo must survive reload")
	}
	if got.RepoURL != saved.RepoURL {
		t.Fatalf("repo url %q", got.RepoURL)
	}

	// the next generated id must not collide with loaded ones
	another, _ := reloaded.Upsert(SavedRepo{UserID: "u1", RepoURL: "other"})
	if another.ID == saved.ID {
		t.Fatal("id collision after reload")
	}
}
