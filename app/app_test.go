package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"public_donation_inventory/db"
	"public_donation_inventory/session"

	"github.com/alicebob/miniredis/v2"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_PATH", "DATABASE_URL", "DB_LOG_LEVEL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SESSION_TTL_SECONDS", "BORROW_DAYS"} {
		t.Setenv(k, "")
	}
	cfg := loadConfig()
	if cfg.DBDriver != db.DriverSQLite || cfg.DBPath != "library.db" || cfg.DBLogLevel != "silent" {
		t.Errorf("db config = %+v", cfg)
	}
	if cfg.RedisAddr != "" || cfg.RedisDB != 0 {
		t.Errorf("redis config = %+v", cfg)
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.BorrowDays != db.DefaultBorrowDays {
		t.Errorf("ttl = %v, days = %d", cfg.SessionTTL, cfg.BorrowDays)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/inv")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL_SECONDS", "600")
	t.Setenv("BORROW_DAYS", "14")

	cfg := loadConfig()
	if cfg.DBDriver != "postgres" || cfg.DatabaseURL != "postgres://u:p@localhost/inv" {
		t.Errorf("db config = %+v", cfg)
	}
	if cfg.RedisDB != 2 || cfg.SessionTTL != 10*time.Minute || cfg.BorrowDays != 14 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadConfigInvalidNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("SESSION_TTL_SECONDS", "-5")
	t.Setenv("BORROW_DAYS", "soon")

	cfg := loadConfig()
	if cfg.RedisDB != 0 || cfg.SessionTTL != 24*time.Hour || cfg.BorrowDays != db.DefaultBorrowDays {
		t.Errorf("config = %+v", cfg)
	}
}

func testConfig(t *testing.T) Config {
	return Config{
		DBDriver:   db.DriverSQLite,
		DBPath:     filepath.Join(t.TempDir(), "library.db"),
		SessionTTL: time.Hour,
		BorrowDays: 14,
	}
}

func TestNewWithMemorySessions(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	if _, ok := a.Sessions.(*session.MemoryStore); !ok {
		t.Errorf("sessions = %T, want *session.MemoryStore", a.Sessions)
	}
	if a.RDB != nil {
		t.Error("redis client should be nil")
	}
	if a.Repo.BorrowDays != 14 {
		t.Errorf("borrow days = %d", a.Repo.BorrowDays)
	}
	if err := Bootstrap(context.Background(), a.Repo); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	// 重复执行也没问题
	if err := Bootstrap(context.Background(), a.Repo); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
}

func TestNewWithRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisAddr = mr.Addr()

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	if _, ok := a.Sessions.(*session.RedisStore); !ok {
		t.Fatalf("sessions = %T, want *session.RedisStore", a.Sessions)
	}
	as, err := a.Sessions.Create(context.Background(), "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ttl := mr.TTL("inv:sess:" + as.ID); ttl != time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
}

func TestAuthRequired(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(time.Hour)
	var got *session.AppSession
	h := Chain(func(_ context.Context, as *session.AppSession) error {
		got = as
		return nil
	}, AuthRequired(store), TouchSession(store))

	if err := h(ctx, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("no session err = %v", err)
	}

	as, _ := store.Create(ctx, "alice")
	if err := h(WithSession(ctx, as.ID), nil); err != nil {
		t.Fatalf("valid session err = %v", err)
	}
	if got == nil || got.UserName != "alice" {
		t.Fatalf("handler saw %+v", got)
	}

	_ = store.Delete(ctx, as.ID)
	got = nil
	if err := h(WithSession(ctx, as.ID), nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("deleted session err = %v", err)
	}
	if got != nil {
		t.Error("handler ran without a session")
	}
}

func TestChainOrder(t *testing.T) {
	var trace []string
	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, as *session.AppSession) error {
				trace = append(trace, name)
				return next(ctx, as)
			}
		}
	}
	h := Chain(func(context.Context, *session.AppSession) error {
		trace = append(trace, "h")
		return nil
	}, mw("a"), mw("b"))
	_ = h(context.Background(), nil)

	if len(trace) != 3 || trace[0] != "a" || trace[1] != "b" || trace[2] != "h" {
		t.Errorf("trace = %v", trace)
	}
}
