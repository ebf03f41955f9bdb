package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"public_donation_inventory/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options 连接参数，由 app.Config 填充
type Options struct {
	Driver   string
	Path     string // sqlite 文件
	DSN      string // postgres
	LogLevel string
}

// PostgresDSN 按 DB_* 环境变量拼接
func PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
}

func gormLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}

// Connect 打开数据库并建好固定表（users / transactions）
func Connect(opts Options) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch opts.Driver {
	case DriverPostgres:
		dsn := opts.DSN
		if dsn == "" {
			dsn = PostgresDSN()
		}
		dial = postgres.Open(dsn)
	case DriverSQLite, "":
		path := opts.Path
		if path == "" {
			path = "library.db"
		}
		dial = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
	}

	conn, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.New(os.Stderr, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(opts.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, &PersistenceError{Op: "connect", Err: err}
	}

	if conn.Dialector.Name() == DriverSQLite {
		// 整个进程只用一条连接
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, &PersistenceError{Op: "connect", Err: err}
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Account{}, &models.Transaction{}); err != nil {
		return &PersistenceError{Op: "migrate", Err: err}
	}

	// 同一物品最多一条 borrowed
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_active_per_item
	  ON %s (item_type, item_id)
	  WHERE status = 'borrowed'
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return &PersistenceError{Op: "migrate", Err: err}
	}

	// 个人借阅记录查询
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_user_status
	  ON %s (user_name, status)
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return &PersistenceError{Op: "migrate", Err: err}
	}
	return nil
}

// Close 释放底层连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
