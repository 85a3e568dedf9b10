package clickhouse

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/revlytics/revlytics/internal/config"
	ierr "github.com/revlytics/revlytics/internal/errors"
	"github.com/revlytics/revlytics/internal/logger"
)

// ClickHouseStore wraps the native ClickHouse connection
type ClickHouseStore struct {
	conn driver.Conn
}

// NewClickHouseStore opens and pings a ClickHouse connection from configuration
func NewClickHouseStore(cfg *config.Configuration, log *logger.Logger) (*ClickHouseStore, error) {
	opts := &clickhouse.Options{
		Addr: []string{cfg.ClickHouse.Address},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouse.Database,
			Username: cfg.ClickHouse.Username,
			Password: cfg.ClickHouse.Password,
		},
		DialTimeout: 10 * time.Second,
	}
	if cfg.ClickHouse.TLS {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open ClickHouse connection").
			Mark(ierr.ErrDatabase)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to ping ClickHouse").
			WithReportableDetails(map[string]interface{}{
				"address": cfg.ClickHouse.Address,
			}).
			Mark(ierr.ErrDatabase)
	}

	log.Infow("connected to clickhouse",
		"address", cfg.ClickHouse.Address,
		"database", cfg.ClickHouse.Database,
	)

	return &ClickHouseStore{conn: conn}, nil
}

// GetConn returns the underlying connection
func (s *ClickHouseStore) GetConn() driver.Conn {
	return s.conn
}

// Close closes the connection
func (s *ClickHouseStore) Close() error {
	return s.conn.Close()
}
