package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Global error declarations.
var (
	ErrAssetNotFound = errors.New("not found in datasource")
	ErrNoPrices      = errors.New("no prices found in datasource")
)

type assetQueries interface {
	GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error)
	UpsertAsset(ctx context.Context, ticker, name, assetType string) (assetRow, error)
}

type priceQueries interface {
	GetDailyCloses(ctx context.Context, tickers []string, start, end time.Time) ([]dailyCloseRow, error)
	UpsertDailyClose(ctx context.Context, assetID int32, day time.Time, close decimal.Decimal) error
}

// Database holds the connection pool and the query layer.
type Database struct {
	assets assetQueries
	prices priceQueries
	conn   *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(ctx context.Context, dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal so close prices scan losslessly.
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(ctx); err != nil {
		return Database{}, err
	}

	q := &pgxQueries{pool: conn}
	return Database{
		assets: q,
		prices: q,
		conn:   conn,
	}, nil
}

// Close releases the connection pool.
func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
