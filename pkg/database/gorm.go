package database

import (
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the pool and the SQL logger. Zero values fall back to the
// defaults below.
type Options struct {
	LogLevel      string // silent, error, warn, info
	SlowThreshold time.Duration
	MaxIdleConns  int
	MaxOpenConns  int
	ConnMaxLife   time.Duration
}

const (
	defaultSlowThreshold = time.Second
	defaultMaxIdleConns  = 5
	defaultMaxOpenConns  = 20
	defaultConnMaxLife   = 30 * time.Minute
)

func (o Options) withDefaults() Options {
	if o.SlowThreshold <= 0 {
		o.SlowThreshold = defaultSlowThreshold
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = defaultMaxIdleConns
	}
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = defaultMaxOpenConns
	}
	if o.ConnMaxLife <= 0 {
		o.ConnMaxLife = defaultConnMaxLife
	}
	return o
}

// ParseLogLevel maps a config string to a gorm log level. Unknown values
// keep warnings so slow queries stay visible.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent", "off":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

func sqlLogger(o Options) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             o.SlowThreshold,
			LogLevel:                  ParseLogLevel(o.LogLevel),
			IgnoreRecordNotFoundError: true,
			// contact rows carry personal data
			ParameterizedQueries: true,
			Colorful:             false,
		},
	)
}

// Open connects to postgres from a libpq DSN or URL and sizes the pool.
func Open(dsn string, opts Options) (*gorm.DB, error) {
	opts = opts.withDefaults()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: sqlLogger(opts),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLife)

	return db, nil
}
