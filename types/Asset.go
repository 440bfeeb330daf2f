package types

import (
	"time"
)

type AssetType string

const (
	AssetTypeStock  AssetType = "STOCK"
	AssetTypeCrypto AssetType = "CRYPTO"
	AssetTypeEtf    AssetType = "ETF"
	AssetTypeIndex  AssetType = "INDEX"
)

// Asset is a priced instrument known to the price store. Benchmarks
// (e.g. an S&P 500 proxy) are regular assets of type INDEX.
type Asset struct {
	Id         int       `json:"id"`
	Ticker     string    `json:"ticker"`
	Name       string    `json:"name"`
	Type       AssetType `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}
