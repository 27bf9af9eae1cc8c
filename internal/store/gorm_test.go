package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/smartjournal/internal/db"
)

func newTestGormStore(t *testing.T) *GormStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Open(db.Options{
		Driver: "sqlite",
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		Silent: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return NewGormStore(gdb)
}

func TestGormStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return newTestGormStore(t)
	})
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	gormStore := newTestGormStore(t)
	if err := Ping(ctx, gormStore); err != nil {
		t.Fatalf("expected sqlite ping to succeed: %v", err)
	}
	if err := Ping(ctx, NewMemoryStore()); err != nil {
		t.Fatalf("memory store should always be reachable: %v", err)
	}

	if err := gormStore.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := Ping(ctx, gormStore); err == nil {
		t.Fatalf("expected ping to fail after close")
	}
}
