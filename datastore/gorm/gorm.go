package gorm

import (
	"fmt"
	"time"

	"github.com/flow-hydraulics/sticker-board/configs"
	"github.com/flow-hydraulics/sticker-board/migrations"
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/jpillora/backoff"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the configured database, retrying until
// cfg.DatabaseConnectTimeout has passed, and runs all pending migrations.
func New(cfg *configs.Config) (*gorm.DB, error) {
	d, err := dialector(cfg.DatabaseType, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	options := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := openWithRetry(d, options, cfg.DatabaseConnectTimeout)
	if err != nil {
		return nil, err
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations.List())
	if err := m.Migrate(); err != nil {
		Close(db)
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("unable to close database: ", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("unable to close database: ", err)
	}
}

func dialector(dbType, dsn string) (gorm.Dialector, error) {
	switch dbType {
	case configs.DatabaseTypePostgresql:
		return postgres.Open(dsn), nil
	case configs.DatabaseTypeMysql:
		return mysql.Open(dsn), nil
	case configs.DatabaseTypeSqlite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("database type '%s' not supported", dbType)
	}
}

func openWithRetry(d gorm.Dialector, options *gorm.Config, timeout time.Duration) (*gorm.DB, error) {
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	deadline := time.Now().Add(timeout)

	for {
		db, err := gorm.Open(d, options)
		if err == nil {
			if err = ping(db); err == nil {
				return db, nil
			}
			Close(db)
		}

		wait := b.Duration()
		if time.Now().Add(wait).After(deadline) {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		log.
			WithFields(log.Fields{"error": err, "retryIn": wait}).
			Warn("Database not available")

		time.Sleep(wait)
	}
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
