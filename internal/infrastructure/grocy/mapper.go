package grocy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grocyscan/backend/internal/domain"
)

// flexibleID accepts ids that Grocy encodes as either JSON numbers or strings
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("grocy id %s: %w", string(data), err)
	}
	*id = flexibleID(n.String())
	return nil
}

// product is a row of /objects/products
type product struct {
	ID   flexibleID `json:"id"`
	Name string     `json:"name"`
}

// shoppingLocation is a row of /objects/shopping_locations
type shoppingLocation struct {
	ID   flexibleID `json:"id"`
	Name string     `json:"name"`
}

// stockAddPayload is the body of POST /stock/products/{id}/add
type stockAddPayload struct {
	Amount             json.Number `json:"amount"`
	Price              json.Number `json:"price"`
	BestBeforeDate     string      `json:"best_before_date"`
	TransactionType    string      `json:"transaction_type"`
	ShoppingLocationID string      `json:"shopping_location_id,omitempty"`
}

// mapToCatalog converts Grocy products to catalog entries, keeping their order
func mapToCatalog(products []product) []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, domain.CatalogEntry{ID: string(p.ID), Name: p.Name})
	}
	return entries
}

// findStore returns the id of the first location whose name equals shopName ignoring case
func findStore(locations []shoppingLocation, shopName string) (string, bool) {
	for _, loc := range locations {
		if strings.EqualFold(loc.Name, shopName) {
			return string(loc.ID), true
		}
	}
	return "", false
}

func newStockAddPayload(entry domain.StockEntry) stockAddPayload {
	return stockAddPayload{
		Amount:             json.Number(entry.Amount.String()),
		Price:              json.Number(entry.Price.String()),
		BestBeforeDate:     entry.BestBeforeDate.Format("2006-01-02"),
		TransactionType:    "purchase",
		ShoppingLocationID: entry.ShoppingLocationID,
	}
}
