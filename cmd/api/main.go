package main

import (
	"context"
	"log"
	"net/http"

	"github.com/safar/eyewear-store/internal/api"
	"github.com/safar/eyewear-store/internal/config"
	"github.com/safar/eyewear-store/internal/database"
	"github.com/safar/eyewear-store/internal/orders"
	"github.com/safar/eyewear-store/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	ctx := context.Background()

	// The mock backend always exists as the fallback; postgres and sheets
	// join only when configured. Selection is fixed for the process
	// lifetime except the explicit development switch endpoint.
	mock := store.NewMockStore()
	backends := []store.Store{mock}
	active := mock.Name()

	if cfg.Sheets.Configured() {
		sheetStore, err := store.NewGoogleSheetStore(ctx, cfg.Sheets)
		if err != nil {
			log.Fatalf("Connect to Google Sheets: %v", err)
		}
		backends = append(backends, sheetStore)
		active = sheetStore.Name()
	}

	if cfg.Database.Configured() {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			log.Fatalf("Connect to database: %v", err)
		}
		defer db.Close()
		pg := store.NewPostgresStore(db)
		backends = append(backends, pg)
		active = pg.Name()
	}

	data, err := store.NewDataService(backends, active)
	if err != nil {
		log.Fatalf("Select data store: %v", err)
	}
	log.Printf("Using %s data store", active)

	orderSvc := orders.NewService(data)
	handler := api.NewHandler(cfg, data, orderSvc, mock)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
