package cloud

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nerrad567/topband-bridge/internal/infrastructure/database"
)

func testStore(t *testing.T) *SQLiteTokenStore {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 1,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	store, err := NewTokenStore(db.DB)
	if err != nil {
		t.Fatalf("NewTokenStore() error = %v", err)
	}
	return store
}

func TestTokenStoreEmptyLoad(t *testing.T) {
	store := testStore(t)

	pair, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if pair.Token != "" || pair.RefreshToken != "" {
		t.Errorf("empty store returned %+v", pair)
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, TokenPair{Token: "tok-1", RefreshToken: "ref-1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	pair, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if pair.Token != "tok-1" || pair.RefreshToken != "ref-1" {
		t.Errorf("Load() = %+v", pair)
	}
}

func TestTokenStoreOverwrites(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, TokenPair{Token: "tok-1", RefreshToken: "ref-1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, TokenPair{Token: "tok-2", RefreshToken: "ref-2"}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	pair, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if pair.Token != "tok-2" || pair.RefreshToken != "ref-2" {
		t.Errorf("Load() after overwrite = %+v, want the second pair", pair)
	}
}
