package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codecat1111/radar-clone/internal/model"
	"github.com/codecat1111/radar-clone/pkg/config"
	"github.com/codecat1111/radar-clone/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// Open creates a gorm handle for the configured driver and applies the pool
// settings. It does not run migrations.
func Open(cfg *config.Config) (*gorm.DB, error) {
	logLevel := cfg.DB.LogLevel
	if cfg.Server.IsProduction() && logLevel > gormlogger.Error {
		logLevel = gormlogger.Error
	}

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DB.GetDSN()))
	default:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DB.GetDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statement usage
		})
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	if cfg.DB.Driver == config.DriverSQLite {
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	return conn, nil
}

// sqliteDSN turns on foreign key enforcement for every pooled connection
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// InitDB initializes the global database connection and runs migrations
func InitDB(cfg *config.Config) error {
	conn, err := Open(cfg)
	if err != nil {
		return err
	}

	logger.GetLogger().Info("Database connected successfully",
		zap.String("driver", cfg.DB.Driver))

	if err := Migrate(conn); err != nil {
		return err
	}

	db = conn
	return nil
}

// Migrate creates or updates the schema
func Migrate(conn *gorm.DB) error {
	if conn.Dialector.Name() == config.DriverSQLite {
		// Cascading deletes need foreign keys enabled per connection
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if conn.Dialector.Name() == config.DriverPostgres {
		stmt := "CREATE INDEX IF NOT EXISTS idx_technologies_search ON technologies " +
			"USING gin(to_tsvector('english', name || ' ' || description))"
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create search index: %w", err)
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// Ping checks that the database answers
func Ping(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
