package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vietddude/bitcoin-adapter/internal/adapter"
	"github.com/vietddude/bitcoin-adapter/internal/health"
	"github.com/vietddude/bitcoin-adapter/internal/infra/utxo"
)

type handlers struct {
	svc     Service
	monitor HealthReporter
	log     *slog.Logger
}

type connectRequest struct {
	ID      string `json:"id"`
	ChainID string `json:"chainId"`
	Type    string `json:"type"`
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, map[string]string{"error": message}, statusCode)
}

// statusFor maps domain errors to HTTP codes. Anything else came from a
// wallet or UTXO backend.
func statusFor(err error) int {
	switch {
	case errors.Is(err, adapter.ErrConnectorNotFound):
		return http.StatusNotFound
	case errors.Is(err, adapter.ErrEmptyAddress), errors.Is(err, utxo.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, utxo.ErrNoSource):
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	report := h.monitor.CheckHealth(r.Context())
	code := http.StatusOK
	if report.SystemStatus == health.StatusCritical {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, map[string]string{"status": string(report.SystemStatus)}, code)
}

func (h *handlers) healthDetailed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.monitor.CheckHealth(r.Context()), http.StatusOK)
}

func (h *handlers) listNetworks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"networks": h.svc.Networks()}, http.StatusOK)
}

func (h *handlers) listConnectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"connectors": h.svc.Connectors()}, http.StatusOK)
}

func (h *handlers) connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeError(w, "id is required", http.StatusBadRequest)
		return
	}

	account, err := h.svc.Connect(r.Context(), adapter.ConnectionRequest{
		ID:      req.ID,
		ChainID: req.ChainID,
		Type:    req.Type,
	})
	if err != nil {
		h.log.Warn("connect failed", "connector", req.ID, "error", err)
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, account, http.StatusOK)
}

func (h *handlers) disconnect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Disconnect(r.Context(), id); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) balance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	chainID := q.Get("chainId")
	if chainID == "" {
		chainID = q.Get("chain_id")
	}

	bal, err := h.svc.GetBalance(r.Context(), adapter.BalanceQuery{
		Address: q.Get("address"),
		ChainID: chainID,
	})
	if err != nil {
		h.log.Warn("balance query failed", "chain", chainID, "error", err)
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, bal, http.StatusOK)
}
