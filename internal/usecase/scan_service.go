package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/grocyscan/backend/internal/domain"
)

// MappingCache is the learned mapping state shared by every scan
type MappingCache interface {
	MappingLookup
	Confirm(ctx context.Context, ocrName, catalogID string) domain.BookingDecision
	Snapshot() map[string]string
}

// ScanServiceConfig holds configuration for the scan service
type ScanServiceConfig struct {
	MaxEdits           int
	EnableDebugLogging bool
}

// ScanService turns OCR receipt text into resolved receipt items
type ScanService struct {
	ocr                domain.OCRProvider
	catalog            domain.CatalogProvider
	mappings           MappingCache
	matchingService    *MatchingService
	enableDebugLogging bool
}

// NewScanService creates a new scan service with dependencies
func NewScanService(
	ocr domain.OCRProvider,
	catalog domain.CatalogProvider,
	mappings MappingCache,
	config ScanServiceConfig,
) *ScanService {
	matchingService := NewMatchingService(mappings, MatchConfig{
		MaxEdits:           config.MaxEdits,
		EnableDebugLogging: config.EnableDebugLogging,
	})

	return &ScanService{
		ocr:                ocr,
		catalog:            catalog,
		mappings:           mappings,
		matchingService:    matchingService,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ParseReceipt parses OCR text and resolves every item against the catalog snapshot.
// It never fails: unreadable text yields the unknown shop and no items.
func (s *ScanService) ParseReceipt(text string, catalog []domain.CatalogEntry) domain.ReceiptParseResult {
	text = NormalizeOCRText(text)
	shop := DetectShop(text)
	log.Printf("[SCAN] Detected shop: %s", shop)

	parser := NewLineParser(ProfileFor(shop), s.enableDebugLogging)
	candidates := parser.ParseCandidates(text)

	items := make([]domain.ResolvedItem, 0, len(candidates))
	for _, candidate := range candidates {
		if IsJunk(candidate.Name) {
			if s.enableDebugLogging {
				log.Printf("[PARSE] Ignored junk: %q", candidate.Name)
			}
			continue
		}
		items = append(items, s.matchingService.Resolve(candidate, catalog))
	}

	return domain.ReceiptParseResult{Shop: shop, Items: items}
}

// ScanImage runs OCR on a receipt image and parses the result.
// Flow: OCR -> fetch catalog -> parse + resolve
func (s *ScanService) ScanImage(ctx context.Context, image []byte) (domain.ReceiptParseResult, error) {
	if len(image) == 0 {
		return domain.ReceiptParseResult{}, domain.ErrEmptyImage
	}

	text, err := s.ocr.ExtractText(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrOCRFailure) {
			return domain.ReceiptParseResult{}, err
		}
		return domain.ReceiptParseResult{}, fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}
	if s.enableDebugLogging {
		log.Printf("[SCAN] OCR text:\n%s", text)
	}

	// An unreachable catalog degrades to "New" items instead of failing the receipt
	catalog, err := s.catalog.ListProducts(ctx)
	if err != nil {
		log.Printf("[SCAN] Catalog unavailable, resolving without it: %v", err)
		catalog = nil
	}

	return s.ParseReceipt(text, catalog), nil
}

// Products returns the current catalog snapshot
func (s *ScanService) Products(ctx context.Context) ([]domain.CatalogEntry, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return products, nil
}

// ConfirmMapping learns a verified OCR name -> catalog id resolution
func (s *ScanService) ConfirmMapping(ctx context.Context, ocrName, catalogID string) domain.BookingDecision {
	return s.mappings.Confirm(ctx, ocrName, catalogID)
}

// Mappings returns a copy of every learned mapping
func (s *ScanService) Mappings() map[string]string {
	return s.mappings.Snapshot()
}
