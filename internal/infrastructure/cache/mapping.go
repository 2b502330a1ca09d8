package cache

import (
	"context"
	"fmt"
	"log"
	"maps"
	"sync"

	"github.com/grocyscan/backend/internal/domain"
)

// MappingCache is a thread-safe in-memory map of learned OCR name -> catalog id
// resolutions. Every confirmation is written through to the backing store.
type MappingCache struct {
	store domain.MappingStore
	data  map[string]string
	mutex sync.RWMutex
}

// NewMappingCache creates an empty cache backed by store
func NewMappingCache(store domain.MappingStore) *MappingCache {
	return &MappingCache{
		store: store,
		data:  make(map[string]string),
	}
}

// Load replaces the cache content with what the store holds
func (c *MappingCache) Load(ctx context.Context) error {
	loaded, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMappingStoreFailure, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]string, len(loaded))
	maps.Copy(c.data, loaded)
	log.Printf("[LEARN] Loaded %d learned mappings", len(c.data))
	return nil
}

// Lookup returns the learned catalog id for an exact OCR name
func (c *MappingCache) Lookup(ocrName string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	id, ok := c.data[ocrName]
	return id, ok
}

// Confirm learns ocrName -> catalogID when the id is a real confirmation and
// persists the full mapping set before returning. A failed save is logged; the
// in-memory entry stays for the lifetime of the process.
func (c *MappingCache) Confirm(ctx context.Context, ocrName, catalogID string) domain.BookingDecision {
	if ocrName == "" {
		return domain.DecisionUnresolved
	}
	decision := domain.ClassifyCatalogID(catalogID)
	if decision != domain.DecisionConfirmed {
		return decision
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	log.Printf("[LEARN] Learning: %q -> %s", ocrName, catalogID)
	c.data[ocrName] = catalogID

	if err := c.store.Save(ctx, maps.Clone(c.data)); err != nil {
		log.Printf("[LEARN] Could not save mappings: %v", err)
	}
	return decision
}

// Snapshot returns a copy of every learned mapping
func (c *MappingCache) Snapshot() map[string]string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return maps.Clone(c.data)
}

// Size returns the number of learned mappings
func (c *MappingCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
