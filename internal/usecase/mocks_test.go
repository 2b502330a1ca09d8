package usecase

import (
	"context"
	"maps"
	"sync"

	"github.com/grocyscan/backend/internal/domain"
)

// mockMappingCache is an in-memory MappingCache for tests
type mockMappingCache struct {
	mu        sync.Mutex
	data      map[string]string
	confirmed []string
}

func newMockMappingCache(initial map[string]string) *mockMappingCache {
	data := map[string]string{}
	maps.Copy(data, initial)
	return &mockMappingCache{data: data}
}

func (m *mockMappingCache) Lookup(ocrName string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.data[ocrName]
	return id, ok
}

func (m *mockMappingCache) Confirm(ctx context.Context, ocrName, catalogID string) domain.BookingDecision {
	m.mu.Lock()
	defer m.mu.Unlock()
	decision := domain.ClassifyCatalogID(catalogID)
	if decision == domain.DecisionConfirmed && ocrName != "" {
		m.data[ocrName] = catalogID
		m.confirmed = append(m.confirmed, ocrName)
	}
	return decision
}

func (m *mockMappingCache) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data)
}

// mockOCRProvider is a mock implementation of domain.OCRProvider
type mockOCRProvider struct {
	text  string
	err   error
	calls int
}

func (m *mockOCRProvider) ExtractText(ctx context.Context, image []byte) (string, error) {
	m.calls++
	return m.text, m.err
}

// mockInventory is a mock implementation of domain.InventoryClient
type mockInventory struct {
	products   []domain.CatalogEntry
	listErr    error
	storeID    string
	storeErr   error
	addErrs    map[string]error
	added      []domain.StockEntry
	storeCalls []string
}

func (m *mockInventory) ListProducts(ctx context.Context) ([]domain.CatalogEntry, error) {
	return m.products, m.listErr
}

func (m *mockInventory) FindStoreID(ctx context.Context, shopName string) (string, error) {
	m.storeCalls = append(m.storeCalls, shopName)
	return m.storeID, m.storeErr
}

func (m *mockInventory) AddProductToStock(ctx context.Context, entry domain.StockEntry) error {
	if err := m.addErrs[entry.ProductID]; err != nil {
		return err
	}
	m.added = append(m.added, entry)
	return nil
}
