// Package configstore persists named portfolio configurations in a
// local SQLite file so they can be re-run without retyping weights.
package configstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"foliosim/types"
)

var ErrConfigNotFound = errors.New("config not found")

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Close() error
}

// SavedConfig is a named portfolio setup.
type SavedConfig struct {
	Name              string          `json:"name"`
	Weights           types.WeightMap `json:"weights"`
	InitialInvestment float64         `json:"initialInvestment"`
	Policy            string          `json:"rebalancePolicy"`
	Benchmark         string          `json:"benchmark,omitempty"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS saved_configs(
		name TEXT PRIMARY KEY,
		weights TEXT NOT NULL,
		initial_investment REAL NOT NULL,
		policy TEXT NOT NULL,
		benchmark TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// Save inserts or replaces the config under its name.
func (s *Store) Save(cfg SavedConfig) error {
	weights, err := json.Marshal(cfg.Weights)
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO saved_configs(name,weights,initial_investment,policy,benchmark,updated_at)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(name) DO UPDATE SET
			weights=excluded.weights,
			initial_investment=excluded.initial_investment,
			policy=excluded.policy,
			benchmark=excluded.benchmark,
			updated_at=excluded.updated_at`,
		cfg.Name, string(weights), cfg.InitialInvestment, cfg.Policy, cfg.Benchmark, time.Now().Unix())
	return err
}

func (s *Store) Get(name string) (SavedConfig, error) {
	row := s.db.QueryRow(`SELECT name,weights,initial_investment,policy,benchmark,updated_at
		FROM saved_configs WHERE name=?`, name)
	cfg, err := scanConfig(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedConfig{}, fmt.Errorf("config %s: %w", name, ErrConfigNotFound)
	}
	return cfg, err
}

func (s *Store) List() ([]SavedConfig, error) {
	rows, err := s.db.Query(`SELECT name,weights,initial_investment,policy,benchmark,updated_at
		FROM saved_configs ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedConfig
	for rows.Next() {
		cfg, err := scanConfig(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

// Delete removes the named config. Deleting an unknown name returns
// ErrConfigNotFound.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM saved_configs WHERE name=?`, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("config %s: %w", name, ErrConfigNotFound)
	}
	return nil
}

func scanConfig(scan func(dest ...any) error) (SavedConfig, error) {
	var cfg SavedConfig
	var weights string
	var updatedAt int64
	if err := scan(&cfg.Name, &weights, &cfg.InitialInvestment, &cfg.Policy, &cfg.Benchmark, &updatedAt); err != nil {
		return SavedConfig{}, err
	}
	if err := json.Unmarshal([]byte(weights), &cfg.Weights); err != nil {
		return SavedConfig{}, fmt.Errorf("decode weights for %s: %w", cfg.Name, err)
	}
	cfg.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return cfg, nil
}
