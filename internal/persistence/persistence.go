// Package persistence stores catalog state across restarts: indexed
// files and discovered duplicate groups. It mirrors the teacher's
// internal/database connection setup (env-driven DSN, pooled
// connections, GORM query-timing callbacks feeding internal/metrics)
// scoped down to the three tables this domain needs.
package persistence

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/audiodup/audiodup/internal/metrics"
)

// Store wraps a GORM connection scoped to the catalog tables.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres using DATABASE_URL, or individual
// DB_HOST/DB_PORT/... components as a fallback, exactly as the
// teacher's internal/database.Initialize does.
func Open() (*Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getenv("DB_HOST", "localhost"),
			getenv("DB_PORT", "5432"),
			getenv("DB_USER", "postgres"),
			getenv("DB_PASSWORD", ""),
			getenv("DB_NAME", "audiodup"),
			getenv("DB_SSLMODE", "disable"),
		)
	}

	gormLogger := gormlogger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	registerMetricsHooks(db)

	return &Store{db: db}, nil
}

// Migrate auto-migrates the catalog schema.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&CatalogEntry{}, &GroupRecord{}, &GroupMember{})
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the database.
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func registerMetricsHooks(db *gorm.DB) {
	record := func(queryType, table string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			start, ok := tx.InstanceGet("metrics:start_time")
			if !ok {
				return
			}
			duration := time.Since(start.(time.Time)).Seconds()
			metrics.Get().DatabaseQueryDuration.WithLabelValues(queryType, table).Observe(duration)
			status := "success"
			if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
				status = "error"
			}
			metrics.Get().DatabaseQueriesTotal.WithLabelValues(queryType, table, status).Inc()
		}
	}
	mark := func(tx *gorm.DB) { tx.InstanceSet("metrics:start_time", time.Now()) }

	db.Callback().Create().Before("gorm:before_create").Register("metrics:before_create", mark)
	db.Callback().Create().After("gorm:after_create").Register("metrics:after_create", record("create", "catalog"))
	db.Callback().Query().Before("gorm:before_query").Register("metrics:before_query", mark)
	db.Callback().Query().After("gorm:after_query").Register("metrics:after_query", record("query", "catalog"))
	db.Callback().Update().Before("gorm:before_update").Register("metrics:before_update", mark)
	db.Callback().Update().After("gorm:after_update").Register("metrics:after_update", record("update", "catalog"))
	db.Callback().Delete().Before("gorm:before_delete").Register("metrics:before_delete", mark)
	db.Callback().Delete().After("gorm:after_delete").Register("metrics:after_delete", record("delete", "catalog"))
}
