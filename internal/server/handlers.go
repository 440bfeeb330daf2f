package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"foliosim/internal/configstore"
	"foliosim/internal/engine"
	"foliosim/types"
)

type simulateRequest struct {
	Weights           types.WeightMap `json:"weights"`
	InitialInvestment float64         `json:"initialInvestment"`
	RebalancePolicy   string          `json:"rebalancePolicy"`
	Start             string          `json:"start"`
	End               string          `json:"end"`
	Benchmark         string          `json:"benchmark,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.Weights) == 0 {
		writeError(w, http.StatusBadRequest, "weights must name at least one ticker")
		return
	}
	if req.InitialInvestment <= 0 {
		writeError(w, http.StatusBadRequest, "initialInvestment must be positive")
		return
	}
	policy, err := types.ParseRebalancePolicy(req.RebalancePolicy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start, err := time.Parse(types.DateFormat, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(types.DateFormat, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not be before start")
		return
	}

	sim := engine.NewSimulationConfig(req.Weights, req.InitialInvestment, policy, start, end)
	if req.Benchmark != "" {
		sim = sim.WithBenchmark(req.Benchmark)
	}

	result, err := engine.NewEngine(s.source, sim, nil, s.log).Run(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoAssets):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, engine.ErrNoPrices):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			s.log.Error().Err(err).Msg("simulation failed")
			writeError(w, http.StatusBadGateway, "price source unavailable")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListConfigs(w http.ResponseWriter, _ *http.Request) {
	configs, err := s.configs.List()
	if err != nil {
		s.log.Error().Err(err).Msg("list configs failed")
		writeError(w, http.StatusInternalServerError, "config store unavailable")
		return
	}
	if configs == nil {
		configs = []configstore.SavedConfig{}
	}
	writeJSON(w, http.StatusOK, configs)
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg configstore.SavedConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if cfg.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(cfg.Weights) == 0 {
		writeError(w, http.StatusBadRequest, "weights must name at least one ticker")
		return
	}
	if _, err := types.ParseRebalancePolicy(cfg.Policy); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.configs.Save(cfg); err != nil {
		s.log.Error().Err(err).Str("name", cfg.Name).Msg("save config failed")
		writeError(w, http.StatusInternalServerError, "config store unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configs.Get(chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, configstore.ErrConfigNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("get config failed")
		writeError(w, http.StatusInternalServerError, "config store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	if err := s.configs.Delete(chi.URLParam(r, "name")); err != nil {
		if errors.Is(err, configstore.ErrConfigNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("delete config failed")
		writeError(w, http.StatusInternalServerError, "config store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) // Ignore encode error - already committed response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
