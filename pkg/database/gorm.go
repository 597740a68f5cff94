package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/techstore/pkg/logger"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the sqlite database file; ":memory:" keeps it in process.
	Path string
}

// NewGormConnection opens a gorm connection for the configured driver
func NewGormConnection(cfg Config) (*gorm.DB, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return openPostgres(cfg)
	case DriverMySQL:
		return openMySQL(cfg)
	case DriverSQLite:
		return NewSQLiteConnection(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// NewSQLiteConnection opens a pure-Go sqlite database with foreign keys enforced
func NewSQLiteConnection(path string) (*gorm.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	logger.Logger.Info().Str("path", path).Msg("Connected to SQLite")
	return db, nil
}

func openMySQL(cfg Config) (*gorm.DB, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host + ":" + cfg.Port
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}

	db, err := gorm.Open(gormmysql.Open(mc.FormatDSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger.Info().
		Str("addr", mc.Addr).
		Str("database", cfg.DBName).
		Msg("Connected to MySQL")
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}
