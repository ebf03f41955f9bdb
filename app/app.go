package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"public_donation_inventory/db"
	"public_donation_inventory/models"
	"public_donation_inventory/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App 聚合各依赖
type App struct {
	DB       *gorm.DB
	RDB      *redis.Client // 未配置 REDIS_ADDR 时为 nil
	Config   Config
	Registry *models.Registry
	Repo     *db.Repo
	Sessions session.Store
}

// Config 从环境变量读取
type Config struct {
	DBDriver    string
	DBPath      string
	DatabaseURL string
	DBLogLevel  string
	RedisAddr   string
	RedisPwd    string
	RedisDB     int
	SessionTTL  time.Duration
	BorrowDays  int
}

func (c Config) dbOptions() db.Options {
	return db.Options{Driver: c.DBDriver, Path: c.DBPath, DSN: c.DatabaseURL, LogLevel: c.DBLogLevel}
}

func MustNew() *App {
	a, err := New(loadConfig())
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	return a
}

func New(cfg Config) (*App, error) {
	// --- DB: sqlite / postgres ---
	conn, err := db.Connect(cfg.dbOptions())
	if err != nil {
		return nil, err
	}

	reg := models.DefaultRegistry()
	repo := db.NewRepo(conn, reg)
	if cfg.BorrowDays > 0 {
		repo.BorrowDays = cfg.BorrowDays
	}

	a := &App{DB: conn, Config: cfg, Registry: reg, Repo: repo}

	// --- Redis（可选）---
	if cfg.RedisAddr == "" {
		a.Sessions = session.NewMemoryStore(cfg.SessionTTL)
		return a, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		_ = db.Close(conn)
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.RDB = rdb
	a.Sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
	return a, nil
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if err := db.Close(a.DB); err != nil {
		log.Printf("close db: %v", err)
	}
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	// 非法数字一律回落到默认值
	getInt := func(k string, def int) int {
		n, err := strconv.Atoi(get(k, ""))
		if err != nil || n < 0 {
			return def
		}
		return n
	}

	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(get("SESSION_TTL_SECONDS", "86400") + "s"); err == nil && d > 0 {
		ttl = d
	}
	days := getInt("BORROW_DAYS", db.DefaultBorrowDays)
	if days == 0 {
		days = db.DefaultBorrowDays
	}

	return Config{
		DBDriver:    get("DB_DRIVER", db.DriverSQLite),
		DBPath:      get("DB_PATH", "library.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBLogLevel:  get("DB_LOG_LEVEL", "silent"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPwd:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:     getInt("REDIS_DB", 0),
		SessionTTL:  ttl,
		BorrowDays:  days,
	}
}
