package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// testStore opens a store of the given backend in a temp directory.
func testStore(t *testing.T, backend Backend) *Store {
	t.Helper()
	if backend == BackendDolt && testing.Short() {
		t.Skip("dolt store tests are slow; skipped with -short")
	}

	store, err := Open(backend, t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func loadFixture(t *testing.T) *catalog.Catalog {
	t.Helper()
	src := catalog.NewFileSource(filepath.Join("..", "catalog", "testdata"), "", "")
	cat, err := catalog.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load fixture catalog: %v", err)
	}
	return cat
}

func TestParseBackend(t *testing.T) {
	for _, s := range []string{"sqlite", "dolt"} {
		b, err := ParseBackend(s)
		if err != nil || string(b) != s {
			t.Errorf("ParseBackend(%q) = %v, %v", s, b, err)
		}
	}
	if _, err := ParseBackend("json"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestOpenSQLite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".monsterid")

	store, err := Open(BackendSQLite, dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dir, "catalog.db")); err != nil {
		t.Errorf("expected catalog.db to be created: %v", err)
	}
	if store.Backend() != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", store.Backend())
	}

	empty, err := store.Empty(context.Background())
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	if !empty {
		t.Error("new store should be empty")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(Backend("postgres"), t.TempDir()); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		store, err := Open(BackendSQLite, dir)
		if err != nil {
			t.Fatalf("open store (attempt %d): %v", i, err)
		}
		store.Close()
	}
}

func testRoundTrip(t *testing.T, store *Store) {
	ctx := context.Background()
	cat := loadFixture(t)

	stats, err := store.Import(ctx, cat, "import fixture")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Groups != 7 || stats.Monsters != 13 || stats.Companions != 8 {
		t.Errorf("unexpected import stats %+v", stats)
	}

	// Loading through the store must give the same catalog
	loaded, err := catalog.Load(ctx, store)
	if err != nil {
		t.Fatalf("load from store: %v", err)
	}

	wantGroups, wantMonsters := cat.Records()
	gotGroups, gotMonsters := loaded.Records()
	if diff := cmp.Diff(wantGroups, gotGroups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantMonsters, gotMonsters, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("monsters mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRoundTripSQLite(t *testing.T) {
	testRoundTrip(t, testStore(t, BackendSQLite))
}

func TestImportRoundTripDolt(t *testing.T) {
	testRoundTrip(t, testStore(t, BackendDolt))
}

func TestImportReplaces(t *testing.T) {
	ctx := context.Background()
	store := testStore(t, BackendSQLite)

	if _, err := store.Import(ctx, loadFixture(t), ""); err != nil {
		t.Fatalf("first import: %v", err)
	}

	small, err := catalog.New(
		[]catalog.Group{{Key: "sh", Name: "small humanoid"}},
		[]catalog.Monster{{Key: "k", Name: "kobold", GroupKey: "sh", XP: 50, CoOccurKeys: []string{"k2"}},
			{Key: "k2", Name: "kobold lord", GroupKey: "sh", XP: 90}},
	)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if _, err := store.Import(ctx, small, ""); err != nil {
		t.Fatalf("second import: %v", err)
	}

	monsters, err := store.Monsters(ctx)
	if err != nil {
		t.Fatalf("monsters: %v", err)
	}
	if len(monsters) != 2 {
		t.Fatalf("expected 2 monsters after replace, got %d", len(monsters))
	}
	if diff := cmp.Diff([]string{"k2"}, monsters[0].CoOccurKeys); diff != "" {
		t.Errorf("companions mismatch (-want +got):\n%s", diff)
	}

	groups, err := store.Groups(ctx)
	if err != nil {
		t.Fatalf("groups: %v", err)
	}
	if len(groups) != 1 || groups[0].Key != "sh" {
		t.Errorf("expected only group sh, got %+v", groups)
	}
}

func TestCompanionOrderKept(t *testing.T) {
	ctx := context.Background()
	store := testStore(t, BackendSQLite)

	cat, err := catalog.New(nil, []catalog.Monster{
		{Key: "hs", Name: "high ninja", GroupKey: "mib", XP: 10, CoOccurKeys: []string{"zz", "bb", "mm"}},
		{Key: "zz", Name: "z", GroupKey: "mib", XP: 1},
		{Key: "bb", Name: "b", GroupKey: "mib", XP: 1},
		{Key: "mm", Name: "m", GroupKey: "mib", XP: 1},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if _, err := store.Import(ctx, cat, ""); err != nil {
		t.Fatalf("import: %v", err)
	}

	monsters, err := store.Monsters(ctx)
	if err != nil {
		t.Fatalf("monsters: %v", err)
	}
	for _, m := range monsters {
		if m.Key == "hs" {
			if diff := cmp.Diff([]string{"zz", "bb", "mm"}, m.CoOccurKeys); diff != "" {
				t.Errorf("companion order mismatch (-want +got):\n%s", diff)
			}
			return
		}
	}
	t.Fatal("monster hs not found")
}

func TestDoltCommitOnSQLite(t *testing.T) {
	store := testStore(t, BackendSQLite)
	if _, err := store.DoltCommit(context.Background(), "x"); err == nil {
		t.Error("expected error committing a sqlite store")
	}
}

func TestDoltImportHistory(t *testing.T) {
	ctx := context.Background()
	store := testStore(t, BackendDolt)

	stats, err := store.Import(ctx, loadFixture(t), "import fixture catalog")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Commit == "" {
		t.Error("expected a commit hash")
	}

	// Same data again: nothing to commit is not an error
	if _, err := store.Import(ctx, loadFixture(t), "unchanged"); err != nil {
		t.Fatalf("re-import: %v", err)
	}

	entries, err := store.DoltLog(ctx, 5)
	if err != nil {
		t.Fatalf("dolt log: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Message == "import fixture catalog" {
			found = true
		}
	}
	if !found {
		t.Errorf("import commit missing from log: %+v", entries)
	}
}
