package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/grocyscan/backend/config"
	httpDelivery "github.com/grocyscan/backend/internal/delivery/http"
	"github.com/grocyscan/backend/internal/domain"
	"github.com/grocyscan/backend/internal/infrastructure/cache"
	"github.com/grocyscan/backend/internal/infrastructure/grocy"
	"github.com/grocyscan/backend/internal/infrastructure/mappingstore"
	"github.com/grocyscan/backend/internal/infrastructure/ocr"
	"github.com/grocyscan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting GrocyScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Mapping store: %s (%s)", cfg.Mapping.Store, cfg.Mapping.Path)

	ctx := context.Background()

	// Initialize infrastructure dependencies
	store, closeStore, err := openMappingStore(ctx, cfg.Mapping)
	if err != nil {
		log.Fatalf("Failed to open mapping store: %v", err)
	}
	defer closeStore()

	mappingCache := cache.NewMappingCache(store)
	if err := mappingCache.Load(ctx); err != nil {
		// Start with an empty cache; new confirmations will rewrite the store
		log.Printf("WARNING: could not load learned mappings: %v", err)
	}

	grocyClient := grocy.NewClient(cfg.Grocy.APIKey, cfg.Grocy.BaseURL, cfg.Grocy.RequestsPerSecond, cfg.Grocy.Timeout)
	if cfg.Server.Environment == "development" {
		grocyClient.SetDebug(true)
		log.Printf("Grocy client debug mode enabled")
	}
	log.Printf("Grocy API configured: %s", cfg.Grocy.BaseURL)

	ocrProvider := ocr.NewTesseractProvider(cfg.OCR.Language, cfg.OCR.TessdataPrefix)
	log.Printf("OCR: tesseract lang=%s tessdata=%q", cfg.OCR.Language, cfg.OCR.TessdataPrefix)

	// Initialize usecase layer
	scanService := usecase.NewScanService(
		ocrProvider,
		grocyClient,
		mappingCache,
		usecase.ScanServiceConfig{
			MaxEdits:           cfg.Matching.MaxEdits,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)
	bookingService := usecase.NewBookingService(
		grocyClient,
		scanService,
		usecase.BookingServiceConfig{BestBeforeDays: cfg.Grocy.BestBeforeDays},
	)

	log.Printf("Matching: max_edits=%d, debug=%v", cfg.Matching.MaxEdits, cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scanService, bookingService, cfg.Server.MaxUploadBytes)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openMappingStore builds the configured durable store for learned mappings
func openMappingStore(ctx context.Context, cfg config.MappingConfig) (domain.MappingStore, func(), error) {
	switch cfg.Store {
	case "sqlite":
		store, err := mappingstore.OpenSQLiteStore(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return mappingstore.NewJSONStore(cfg.Path), func() {}, nil
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
