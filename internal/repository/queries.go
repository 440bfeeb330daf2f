package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type assetRow struct {
	ID         int32
	Ticker     string
	Name       string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

type dailyCloseRow struct {
	Ticker string
	Day    time.Time
	Close  decimal.Decimal
}

// pgxQueries is the SQL layer behind the query interfaces.
type pgxQueries struct {
	pool *pgxpool.Pool
}

func (q *pgxQueries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var a assetRow
	err := q.pool.QueryRow(ctx,
		`SELECT id, ticker, name, type, created_at, modified_at
		   FROM assets
		  WHERE ticker = $1`, ticker).
		Scan(&a.ID, &a.Ticker, &a.Name, &a.Type, &a.CreatedAt, &a.ModifiedAt)
	return a, err
}

func (q *pgxQueries) UpsertAsset(ctx context.Context, ticker, name, assetType string) (assetRow, error) {
	var a assetRow
	err := q.pool.QueryRow(ctx,
		`INSERT INTO assets (ticker, name, type, created_at, modified_at)
		 VALUES ($1, $2, $3, now(), now())
		 ON CONFLICT (ticker) DO UPDATE SET modified_at = now()
		 RETURNING id, ticker, name, type, created_at, modified_at`,
		ticker, name, assetType).
		Scan(&a.ID, &a.Ticker, &a.Name, &a.Type, &a.CreatedAt, &a.ModifiedAt)
	return a, err
}

func (q *pgxQueries) GetDailyCloses(ctx context.Context, tickers []string, start, end time.Time) ([]dailyCloseRow, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT a.ticker, p.day, p.close
		   FROM daily_prices p
		   JOIN assets a ON a.id = p.asset_id
		  WHERE a.ticker = ANY($1) AND p.day >= $2 AND p.day <= $3
		  ORDER BY p.day, a.ticker`, tickers, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dailyCloseRow
	for rows.Next() {
		var r dailyCloseRow
		if err := rows.Scan(&r.Ticker, &r.Day, &r.Close); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *pgxQueries) UpsertDailyClose(ctx context.Context, assetID int32, day time.Time, close decimal.Decimal) error {
	_, err := q.pool.Exec(ctx,
		`INSERT INTO daily_prices (asset_id, day, close)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (asset_id, day) DO UPDATE SET close = EXCLUDED.close`,
		assetID, day, close)
	return err
}
