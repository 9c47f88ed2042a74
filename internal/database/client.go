// Package database provides the connection to the meteorological
// observation store (a PCDS/MSC-style Postgres schema) and the GORM
// models for its observation and metadata tables.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pacificclimate/designvalues/internal/log"
	"go.uber.org/zap"
)

// Client holds the connection to the observation database.
type Client struct {
	dsn    string
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewClient creates a new database client. Connect must be called before
// the client is used.
func NewClient(dsn string, logger *zap.SugaredLogger) *Client {
	return &Client{
		dsn:    dsn,
		logger: logger,
	}
}

// Connect opens the GORM connection to the observation store.
func (c *Client) Connect() error {
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	log.Info("connecting to observation database...")
	db, err := gorm.Open(postgres.Open(c.dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return fmt.Errorf("unable to connect to observation database: %w", err)
	}
	log.Info("observation database connection successful")

	c.db = db
	return nil
}

// DB returns the underlying GORM handle.
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
