package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"public_donation_inventory/models"

	"golang.org/x/crypto/bcrypt"
)

var day0 = time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := Connect(Options{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "library.db")})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = Close(conn) })

	r := NewRepo(conn, models.DefaultRegistry())
	r.HashCost = bcrypt.MinCost
	r.Now = func() time.Time { return day0 }
	if err := r.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return r
}

func itemType(t *testing.T, r *Repo, name string) *models.ItemType {
	t.Helper()
	it, ok := r.Registry().ByName(name)
	if !ok {
		t.Fatalf("no item type %s", name)
	}
	return it
}

// addItem 按 field=value 对写入一条物品
func addItem(t *testing.T, r *Repo, typ, user string, kv ...string) int64 {
	t.Helper()
	b := models.NewItemBuilder(itemType(t, r, typ))
	for i := 0; i+1 < len(kv); i += 2 {
		if err := b.Set(kv[i], kv[i+1]); err != nil {
			t.Fatalf("set %s: %v", kv[i], err)
		}
	}
	it, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	id, err := r.AddItem(context.Background(), it, user)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return id
}
