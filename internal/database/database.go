package database

import (
	"fmt"
	"os"
	"path/filepath"

	"studentmanager/internal/config"
	"studentmanager/internal/logger"
	"studentmanager/internal/model"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const component = "database"

// InitDB opens the configured storage and makes sure the students table
// exists. It is safe to call on an already initialized database.
func InitDB(cfg config.Config, log logger.Logger) (*gorm.DB, error) {
	if cfg.DBDriver == "" {
		cfg.DBDriver = config.DriverSQLite
	}
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if logger.ParseLevel(cfg.LogLevel) <= zerolog.DebugLevel {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer; keep one connection so every
		// operation sees the same file state.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.Student{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate the database: %w", err)
	}

	log.Info(component, "database ready", map[string]interface{}{
		"driver": cfg.DBDriver,
		"path":   cfg.DBPath,
	})
	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openDialector(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return sqlite.Open(cfg.DBPath), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.PostgresDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}
