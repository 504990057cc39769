// twin-vesync is a WonderTwin twin that simulates the VeSync smart-home cloud.
// It answers login, device listing and per-device operations for the outlets,
// switches, bulbs, purifiers and humidifiers client libraries support, checking
// each request against the operation specs before replying.
//
// SDK compatibility target: pyvesync
// Integration method: point the client's API base URL at the twin
package main

import (
	"log"

	"github.com/wondertwin-ai/twin-vesync/internal/api"
	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	"github.com/wondertwin-ai/twin-vesync/internal/store"
	"github.com/wondertwin-ai/twin-vesync/pkg/admin"
	"github.com/wondertwin-ai/twin-vesync/pkg/twincore"
)

func main() {
	cfg := twincore.ParseFlags("twin-vesync")
	if cfg.Port == 0 {
		cfg.Port = 8000
	}

	twin := twincore.New(cfg)

	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.SpecDir != "" {
		cat, err = catalog.LoadDir(cfg.SpecDir)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		log.Fatalf("failed to load device specs: %v", err)
	}

	memStore := store.New(catalog.Devices())

	// API handlers
	apiHandler := api.NewHandler(cat, memStore, twin.Middleware(), twin.Logger)
	apiHandler.Routes(twin.Router)

	// Admin control plane
	adminHandler := admin.NewHandler(memStore, twin.Middleware())
	adminHandler.SetConfigProvider(twin)
	adminHandler.Routes(twin.Router)

	twin.Logger.Info("twin-vesync ready",
		"port", cfg.Port,
		"models", len(cat.Models()),
		"devices", memStore.Count(),
	)

	if err := twin.Serve(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
