package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"dealio-backend/lib/sqliteutil"
	"dealio-backend/services/catalog"
	"dealio-backend/services/deals"
	"dealio-backend/services/deals/db"
	"dealio-backend/services/marketfeed"
)

func InitDeals(ctx context.Context, mux *http.ServeMux, cfg Config) error {
	database, err := sqliteutil.OpenDB(db.Schema, cfg.Deals.Database)
	if err != nil {
		return err
	}

	feed, err := marketfeed.NewClient(cfg.Marketfeed)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		feed.Close()
	}()

	service := deals.NewService(database, feed, deals.Config{
		Scan:              cfg.Deals.Scan,
		RequireListingURL: cfg.Deals.RequireListingUrl,
	})
	go service.RescanDaemon(ctx)

	h := dealsHandlers{service: service}
	mux.HandleFunc("GET /api/brands", h.brands)
	mux.HandleFunc("GET /api/models", h.models)
	mux.HandleFunc("GET /api/search", h.search)
	mux.HandleFunc("GET /api/guitars", h.trackedGuitars)
	mux.HandleFunc("POST /api/guitars", h.track)
	mux.HandleFunc("DELETE /api/guitars", h.untrack)
	mux.HandleFunc("POST /api/scan", h.startScan)
	mux.HandleFunc("DELETE /api/scan", h.cancelScan)
	mux.HandleFunc("GET /api/scan/ws", h.scanSocket)
	mux.HandleFunc("GET /api/deals", h.settled)
	return nil
}

type dealsHandlers struct {
	service *deals.Service
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func guitarParams(r *http.Request) (string, string, bool) {
	brand := r.URL.Query().Get("brand")
	model := r.URL.Query().Get("model")
	return brand, model, brand != "" && model != ""
}

func (h dealsHandlers) brands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Brands())
}

func (h dealsHandlers) models(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")
	if brand == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing brand"))
		return
	}
	writeJSON(w, http.StatusOK, catalog.Models(brand))
}

func (h dealsHandlers) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing q"))
		return
	}
	writeJSON(w, http.StatusOK, catalog.Search(query, 10))
}

func (h dealsHandlers) trackedGuitars(w http.ResponseWriter, r *http.Request) {
	guitars, err := h.service.TrackedGuitars(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, guitars)
}

type trackRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
}

func (h dealsHandlers) track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Brand == "" || req.Model == "" {
		writeError(w, http.StatusBadRequest, errors.New("body must be {brand, model}"))
		return
	}
	err = h.service.Track(r.Context(), req.Brand, req.Model)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// tracking kicks off the first scan right away; an active scan
	// for the same guitar just keeps running
	_, err = h.service.RunScan(r.Context(), req.Brand, req.Model, 0)
	if err != nil && !errors.Is(err, deals.ErrScanActive) {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"tracked": true})
}

func (h dealsHandlers) untrack(w http.ResponseWriter, r *http.Request) {
	brand, model, ok := guitarParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("missing brand or model"))
		return
	}
	err := h.service.Untrack(r.Context(), brand, model)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"tracked": false})
}

func (h dealsHandlers) startScan(w http.ResponseWriter, r *http.Request) {
	brand, model, ok := guitarParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("missing brand or model"))
		return
	}
	scan, err := h.service.RunScan(r.Context(), brand, model, 0)
	if errors.Is(err, deals.ErrScanActive) {
		writeError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"scan_id": scan.ID})
}

func (h dealsHandlers) cancelScan(w http.ResponseWriter, r *http.Request) {
	brand, model, ok := guitarParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("missing brand or model"))
		return
	}
	cancelled := h.service.CancelScan(brand, model)
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (h dealsHandlers) settled(w http.ResponseWriter, r *http.Request) {
	brand, model, ok := guitarParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("missing brand or model"))
		return
	}
	result, err := h.service.Settled(r.Context(), brand, model)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, errors.New("no settled scan for this guitar"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
