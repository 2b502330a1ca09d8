package domain

import "github.com/shopspring/decimal"

func init() {
	// Prices and amounts travel as plain JSON numbers, like the Grocy API expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// ShopTag identifies a known receipt layout
type ShopTag string

const (
	ShopLidl    ShopTag = "LIDL"
	ShopRewe    ShopTag = "REWE"
	ShopAldi    ShopTag = "ALDI"
	ShopUnknown ShopTag = "UNKNOWN"
)

// Match provenance tags for ResolvedItem.MatchInfo
const (
	MatchLearned = "Learned"
	MatchNew     = "New"
)

// CatalogEntry is a product as known by the external catalog (Grocy)
type CatalogEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ParsedCandidate is one purchasable line extracted from OCR text
type ParsedCandidate struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// ResolvedItem is a parsed receipt line resolved (where possible) against the catalog.
// CatalogID and CatalogName are empty when MatchInfo is "New".
type ResolvedItem struct {
	OCRName     string          `json:"ocrName"`
	CatalogID   string          `json:"grocyId"`
	CatalogName string          `json:"grocyName"`
	Quantity    decimal.Decimal `json:"amount"`
	UnitPrice   decimal.Decimal `json:"price"`
	MatchInfo   string          `json:"matchInfo"`
}

// ReceiptParseResult is the outcome of one OCR run; items keep receipt line order
type ReceiptParseResult struct {
	Shop  ShopTag        `json:"shop"`
	Items []ResolvedItem `json:"items"`
}
