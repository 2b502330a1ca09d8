package domain

import "context"

// MappingStore defines durable persistence for learned OCR name -> catalog id mappings.
// Save always receives the full mapping set and overwrites what was stored before.
type MappingStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, mappings map[string]string) error
}

// CatalogProvider supplies the current product catalog snapshot
type CatalogProvider interface {
	ListProducts(ctx context.Context) ([]CatalogEntry, error)
}

// InventoryClient defines the stock operations of the external inventory service
type InventoryClient interface {
	CatalogProvider
	FindStoreID(ctx context.Context, shopName string) (string, error)
	AddProductToStock(ctx context.Context, entry StockEntry) error
}

// OCRProvider turns a receipt image into newline separated text
type OCRProvider interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
