package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foliosim/internal/configstore"
	"foliosim/internal/engine"
	"foliosim/types"
)

type stubSource struct {
	records []types.PriceRecord
	err     error
}

func (s *stubSource) GetDailyCloses(_ context.Context, _ []string, _, _ time.Time) ([]types.PriceRecord, error) {
	return s.records, s.err
}

func newTestServer(t *testing.T, source engine.PriceSource) *Server {
	t.Helper()
	db, err := configstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, configstore.InitSchema(db))

	return New(Config{
		Port:    "0",
		Log:     zerolog.Nop(),
		Source:  source,
		Configs: configstore.NewStore(db),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &stubSource{})
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestHandleSimulate(t *testing.T) {
	source := &stubSource{records: []types.PriceRecord{
		{Date: "2024-01-01", Prices: map[string]float64{"BTC-USD": 100}},
		{Date: "2024-01-02", Prices: map[string]float64{"BTC-USD": 110}},
		{Date: "2024-01-03", Prices: map[string]float64{"BTC-USD": 121}},
	}}
	s := newTestServer(t, source)

	rec := doJSON(t, s, http.MethodPost, "/api/simulate", simulateRequest{
		Weights:           types.WeightMap{"BTC-USD": 100},
		InitialInvestment: 1000,
		RebalancePolicy:   "none",
		Start:             "2024-01-01",
		End:               "2024-01-03",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result engine.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Series, 3)
	assert.InDelta(t, 1000.0, result.Series[0].Value, 1e-9)
	assert.InDelta(t, 1100.0, result.Series[1].Value, 1e-9)
	assert.InDelta(t, 1210.0, result.Series[2].Value, 1e-9)
	assert.InDelta(t, 0.21, result.Metrics.TotalReturn, 1e-9)
	assert.True(t, result.Validation.Valid)
}

func TestHandleSimulateValidation(t *testing.T) {
	s := newTestServer(t, &stubSource{})

	tests := []struct {
		name string
		req  simulateRequest
		want int
	}{
		{"no weights", simulateRequest{InitialInvestment: 1000, Start: "2024-01-01", End: "2024-01-02"}, http.StatusBadRequest},
		{"zero investment", simulateRequest{Weights: types.WeightMap{"SPY": 100}, Start: "2024-01-01", End: "2024-01-02"}, http.StatusBadRequest},
		{"bad policy", simulateRequest{Weights: types.WeightMap{"SPY": 100}, InitialInvestment: 1, RebalancePolicy: "weekly", Start: "2024-01-01", End: "2024-01-02"}, http.StatusBadRequest},
		{"bad start", simulateRequest{Weights: types.WeightMap{"SPY": 100}, InitialInvestment: 1, Start: "01/01/2024", End: "2024-01-02"}, http.StatusBadRequest},
		{"end before start", simulateRequest{Weights: types.WeightMap{"SPY": 100}, InitialInvestment: 1, Start: "2024-01-02", End: "2024-01-01"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/simulate", tt.req)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestHandleSimulateNoPrices(t *testing.T) {
	s := newTestServer(t, &stubSource{records: nil})
	rec := doJSON(t, s, http.MethodPost, "/api/simulate", simulateRequest{
		Weights:           types.WeightMap{"SPY": 100},
		InitialInvestment: 1000,
		Start:             "2024-01-01",
		End:               "2024-01-02",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfigCRUD(t *testing.T) {
	s := newTestServer(t, &stubSource{})

	cfg := configstore.SavedConfig{
		Name:              "mix",
		Weights:           types.WeightMap{"BTC-USD": 60, "ETH-USD": 40},
		InitialInvestment: 5000,
		Policy:            "quarterly",
	}
	rec := doJSON(t, s, http.MethodPost, "/api/configs/", cfg)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodGet, "/api/configs/mix", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got configstore.SavedConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, cfg.Weights, got.Weights)

	rec = doJSON(t, s, http.MethodGet, "/api/configs/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []configstore.SavedConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	rec = doJSON(t, s, http.MethodDelete, "/api/configs/mix", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/configs/mix", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveConfigValidation(t *testing.T) {
	s := newTestServer(t, &stubSource{})

	rec := doJSON(t, s, http.MethodPost, "/api/configs/", configstore.SavedConfig{Weights: types.WeightMap{"SPY": 100}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/configs/", configstore.SavedConfig{Name: "empty"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/configs/", configstore.SavedConfig{Name: "bad", Weights: types.WeightMap{"SPY": 100}, Policy: "weekly"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
