package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	apiCashflow "github.com/Cokul/pres-prom-inmob/pkg/api/cashflow"
	apiConfig "github.com/Cokul/pres-prom-inmob/pkg/api/config"
	"github.com/Cokul/pres-prom-inmob/pkg/config"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default config/cashflow.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[FATAL] Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(context.Background(), cfg.StoreOptions())
	if err != nil {
		fmt.Printf("[FATAL] Failed to open %s snapshot store: %v\n", cfg.Store.Backend, err)
		os.Exit(1)
	}
	defer st.Close()
	fmt.Printf("[STORE] Using %s backend\n", cfg.Store.Backend)

	mux := http.NewServeMux()

	// Config endpoints
	configHandler := apiConfig.NewHandler(cfg)
	mux.HandleFunc("GET /api/config", configHandler.HandleConfig)

	// Projection, import, export and snapshot endpoints
	apiCashflow.NewHandler(st, cfg).Register(mux)

	fmt.Printf("API server starting on %s...\n", cfg.API.Addr)
	fmt.Println("  - GET    /api/config")
	for _, route := range apiCashflow.Routes() {
		fmt.Printf("  - %s\n", route)
	}

	if err := http.ListenAndServe(cfg.API.Addr, apiCashflow.WithCORS(cfg.API.AllowOrigin, mux)); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		st.Close()
		os.Exit(1)
	}
}
