package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"foliosim/types"
)

// GetAssetByTicker retrieves a types.Asset by its ticker.
func (db *Database) GetAssetByTicker(ctx context.Context, ticker string) (*types.Asset, error) {
	asset, err := db.assets.GetAssetByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticker %s %w", ticker, ErrAssetNotFound)
		}
		return nil, err
	}
	return convertAsset(asset), nil
}

// EnsureAsset creates the asset if it does not exist yet and returns it.
// Used by the ingest path before saving fetched closes.
func (db *Database) EnsureAsset(ctx context.Context, ticker, name string, assetType types.AssetType) (*types.Asset, error) {
	asset, err := db.assets.UpsertAsset(ctx, ticker, name, string(assetType))
	if err != nil {
		return nil, fmt.Errorf("ensure asset %s: %w", ticker, err)
	}
	return convertAsset(asset), nil
}

func convertAsset(row assetRow) *types.Asset {
	a := &types.Asset{
		Id:     int(row.ID),
		Ticker: row.Ticker,
		Name:   row.Name,
		Type:   types.AssetType(row.Type),
	}
	if row.CreatedAt != nil {
		a.CreatedAt = *row.CreatedAt
	}
	if row.ModifiedAt != nil {
		a.ModifiedAt = *row.ModifiedAt
	}
	return a
}
