package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/grocyscan/backend/internal/domain"
)

// defaultBestBeforeDays is used when no shelf life is configured
const defaultBestBeforeDays = 7

// MappingConfirmer learns confirmed resolutions
type MappingConfirmer interface {
	ConfirmMapping(ctx context.Context, ocrName, catalogID string) domain.BookingDecision
}

// BookingServiceConfig holds configuration for the booking service
type BookingServiceConfig struct {
	BestBeforeDays int
}

// BookingService books reviewed receipt items into the inventory and learns them
type BookingService struct {
	inventory      domain.InventoryClient
	learner        MappingConfirmer
	bestBeforeDays int
	now            func() time.Time
}

// NewBookingService creates a new booking service with dependencies
func NewBookingService(inventory domain.InventoryClient, learner MappingConfirmer, config BookingServiceConfig) *BookingService {
	days := config.BestBeforeDays
	if days <= 0 {
		days = defaultBestBeforeDays
	}

	return &BookingService{
		inventory:      inventory,
		learner:        learner,
		bestBeforeDays: days,
		now:            time.Now,
	}
}

// Book adds every confirmed item to stock and learns its mapping.
// A failed stock booking is reported and does not stop the remaining items.
func (s *BookingService) Book(ctx context.Context, request *domain.BookingRequest) (*domain.BookingSummary, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	log.Printf("[BOOK] Starting booking for shop %q (%d items)", request.Shop, len(request.Items))

	storeID, err := s.inventory.FindStoreID(ctx, request.Shop)
	if err != nil {
		if !errors.Is(err, domain.ErrStoreNotFound) {
			log.Printf("[BOOK] Could not look up store %q: %v", request.Shop, err)
		}
		storeID = ""
	}

	bestBefore := s.now().AddDate(0, 0, s.bestBeforeDays)
	summary := &domain.BookingSummary{}

	for _, item := range request.Items {
		switch domain.ClassifyCatalogID(item.CatalogID) {
		case domain.DecisionIgnored:
			summary.Ignored++
			continue
		case domain.DecisionUnresolved:
			summary.Unresolved++
			continue
		}

		entry := domain.StockEntry{
			ProductID:          item.CatalogID,
			Amount:             item.Quantity,
			Price:              item.UnitPrice,
			BestBeforeDate:     bestBefore,
			ShoppingLocationID: storeID,
		}
		if err := s.inventory.AddProductToStock(ctx, entry); err != nil {
			log.Printf("[BOOK] Error booking product %s (%q): %v", item.CatalogID, item.OCRName, err)
			summary.Failed = append(summary.Failed, domain.BookingFailure{
				OCRName:   item.OCRName,
				CatalogID: item.CatalogID,
				Error:     err.Error(),
			})
			continue
		}

		log.Printf("[BOOK] Booked product %s (%sx) at %s", item.CatalogID, item.Quantity, request.Shop)
		summary.Booked++
		s.learner.ConfirmMapping(ctx, item.OCRName, item.CatalogID)
	}

	return summary, nil
}
