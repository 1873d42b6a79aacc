package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pcapinspect/internal/config"
	"pcapinspect/internal/query"

	"github.com/gorilla/mux"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Find the first enabled ClickHouse writer config
	var chCfg *config.ClickHouseConfig
	for _, writerDef := range cfg.Writers {
		if writerDef.Enabled && writerDef.Type == "clickhouse" {
			chCfg = &writerDef.ClickHouse
			break
		}
	}

	if chCfg == nil {
		log.Fatalf("No enabled ClickHouse writer found in config. API server cannot start.")
	}

	querier, err := query.NewClickHouseQuerier(*chCfg)
	if err != nil {
		log.Fatalf("Failed to create querier: %v", err)
	}

	r := mux.NewRouter()

	apiHandler := &APIHandler{querier: querier}

	r.HandleFunc("/api/v1/captures", apiHandler.capturesHandler).Methods("GET")
	r.HandleFunc("/api/v1/deltas", apiHandler.deltaStatsHandler).Methods("GET")

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	querier query.Querier
}

// capturesHandler lists the captures with stored statistics.
func (h *APIHandler) capturesHandler(w http.ResponseWriter, r *http.Request) {
	captures, err := h.querier.Captures(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query captures: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, captures)
}

// deltaStatsHandler serves the stored per-group delta statistics for a
// capture, optionally narrowed to one device.
func (h *APIHandler) deltaStatsHandler(w http.ResponseWriter, r *http.Request) {
	capture := r.URL.Query().Get("capture")
	if capture == "" {
		http.Error(w, "missing required 'capture' query parameter", http.StatusBadRequest)
		return
	}
	device := r.URL.Query().Get("device")

	rows, err := h.querier.DeltaStats(r.Context(), capture, device)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query delta stats: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}
