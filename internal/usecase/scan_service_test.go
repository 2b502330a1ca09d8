package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/grocyscan/backend/internal/domain"
	"github.com/shopspring/decimal"
)

var testCatalog = []domain.CatalogEntry{
	{ID: "1", Name: "Vollmilch"},
	{ID: "2", Name: "Erbsen 500g"},
	{ID: "3", Name: "Bio Bananen"},
	{ID: "4", Name: "Gouda 48%"},
}

const reweReceipt = "REWE Markt GmbH\r\n" +
	"Erbsen 500g\t1,78 A\n" +
	"2 Stk x 0,89\n" +
	"Vollmilch 1,19 B\n" +
	"Pfand -0,25 A\n" +
	"SUMME EUR 2,97\n" +
	"Kreditkarte 2,97\n" +
	"4001234567 1,00\n" +
	"Gouda 48% 2,49 A"

func newTestScanService(mappings *mockMappingCache, ocr *mockOCRProvider, inv *mockInventory) *ScanService {
	if mappings == nil {
		mappings = newMockMappingCache(nil)
	}
	if ocr == nil {
		ocr = &mockOCRProvider{}
	}
	if inv == nil {
		inv = &mockInventory{}
	}
	return NewScanService(ocr, inv, mappings, ScanServiceConfig{})
}

func TestParseReceipt(t *testing.T) {
	svc := newTestScanService(nil, nil, nil)

	t.Run("parses a rewe receipt end to end", func(t *testing.T) {
		result := svc.ParseReceipt(reweReceipt, testCatalog)

		if result.Shop != domain.ShopRewe {
			t.Errorf("Shop = %s, want REWE", result.Shop)
		}
		if len(result.Items) != 3 {
			t.Fatalf("got %d items, want 3: %+v", len(result.Items), result.Items)
		}

		erbsen := result.Items[0]
		if erbsen.OCRName != "Erbsen 500g" || erbsen.CatalogID != "2" || erbsen.MatchInfo != "Auto (0)" {
			t.Errorf("item 0 = %+v, want Erbsen 500g -> 2 Auto (0)", erbsen)
		}
		if !erbsen.Quantity.Equal(decimal.NewFromInt(2)) || !erbsen.UnitPrice.Equal(decimal.RequireFromString("0.89")) {
			t.Errorf("item 0 quantity/price = %s/%s, want 2/0.89", erbsen.Quantity, erbsen.UnitPrice)
		}

		if result.Items[1].OCRName != "Vollmilch" || result.Items[1].CatalogID != "1" {
			t.Errorf("item 1 = %+v, want Vollmilch -> 1", result.Items[1])
		}
		if result.Items[2].OCRName != "Gouda 48%" || result.Items[2].CatalogID != "4" {
			t.Errorf("item 2 = %+v, want Gouda 48%% -> 4", result.Items[2])
		}
	})

	t.Run("junk never reaches the output", func(t *testing.T) {
		result := svc.ParseReceipt(reweReceipt, testCatalog)
		for _, item := range result.Items {
			switch item.OCRName {
			case "Kreditkarte", "4001234567", "Pfand", "SUMME EUR":
				t.Errorf("junk item %q in output", item.OCRName)
			}
		}
	})

	t.Run("lidl receipt keeps unit price", func(t *testing.T) {
		result := svc.ParseReceipt("Lidl sagt Danke\nBio Bananen 1,29 x 3 3,87 A", testCatalog)
		if result.Shop != domain.ShopLidl || len(result.Items) != 1 {
			t.Fatalf("got %+v, want one LIDL item", result)
		}
		item := result.Items[0]
		if !item.UnitPrice.Equal(decimal.RequireFromString("1.29")) || !item.Quantity.Equal(decimal.NewFromInt(3)) {
			t.Errorf("price/quantity = %s/%s, want 1.29/3", item.UnitPrice, item.Quantity)
		}
	})

	t.Run("malformed quantity lines add no items", func(t *testing.T) {
		result := svc.ParseReceipt("REWE\nErbsen 500g 1,78 A\n0 Stk x 0,89", testCatalog)
		if len(result.Items) != 1 {
			t.Fatalf("got %d items, want 1: %+v", len(result.Items), result.Items)
		}
		item := result.Items[0]
		if item.OCRName != "Erbsen 500g" || !item.Quantity.Equal(decimal.NewFromInt(1)) ||
			!item.UnitPrice.Equal(decimal.RequireFromString("1.78")) {
			t.Errorf("item = %+v, want unmodified Erbsen 500g x1 @ 1.78", item)
		}

		lidl := svc.ParseReceipt("Lidl\nBananen Bio Chiquita 1,29 x 0 0,00 A", testCatalog)
		if len(lidl.Items) != 0 {
			t.Errorf("got %d items, want 0: %+v", len(lidl.Items), lidl.Items)
		}
	})

	t.Run("form feed separates tokens", func(t *testing.T) {
		result := svc.ParseReceipt("ALDI\nVollmilch\f1,19 A", testCatalog)
		if len(result.Items) != 1 || result.Items[0].CatalogID != "1" {
			t.Errorf("got %+v, want Vollmilch resolved to 1", result.Items)
		}
	})

	t.Run("empty text yields unknown shop and no items", func(t *testing.T) {
		result := svc.ParseReceipt("", testCatalog)
		if result.Shop != domain.ShopUnknown {
			t.Errorf("Shop = %s, want UNKNOWN", result.Shop)
		}
		if result.Items == nil || len(result.Items) != 0 {
			t.Errorf("Items = %#v, want empty non-nil slice", result.Items)
		}
	})

	t.Run("empty catalog resolves everything as New", func(t *testing.T) {
		result := svc.ParseReceipt(reweReceipt, nil)
		if len(result.Items) != 3 {
			t.Fatalf("got %d items, want 3", len(result.Items))
		}
		for _, item := range result.Items {
			if item.MatchInfo != domain.MatchNew || item.CatalogID != "" {
				t.Errorf("item %q = %q/%q, want New", item.OCRName, item.MatchInfo, item.CatalogID)
			}
		}
	})

	t.Run("preserves receipt order", func(t *testing.T) {
		result := svc.ParseReceipt("Gouda 48% 2,49\nVollmilch 1,19\nErbsen 500g 1,78", testCatalog)
		want := []string{"Gouda 48%", "Vollmilch", "Erbsen 500g"}
		if len(result.Items) != len(want) {
			t.Fatalf("got %d items, want %d", len(result.Items), len(want))
		}
		for i, name := range want {
			if result.Items[i].OCRName != name {
				t.Errorf("item %d = %q, want %q", i, result.Items[i].OCRName, name)
			}
		}
	})
}

func TestConfirmMapping(t *testing.T) {
	mappings := newMockMappingCache(nil)
	svc := newTestScanService(mappings, nil, nil)
	ctx := context.Background()

	t.Run("learned entry takes precedence regardless of catalog", func(t *testing.T) {
		if got := svc.ConfirmMapping(ctx, "Milch 3,5%", "17"); got != domain.DecisionConfirmed {
			t.Fatalf("ConfirmMapping() = %s, want confirmed", got)
		}

		result := svc.ParseReceipt("Milch 3,5% 1,19 B", testCatalog)
		if len(result.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(result.Items))
		}
		item := result.Items[0]
		if item.MatchInfo != domain.MatchLearned || item.CatalogID != "17" {
			t.Errorf("got %q/%s, want Learned/17", item.MatchInfo, item.CatalogID)
		}
	})

	t.Run("ignore and empty ids are not learned", func(t *testing.T) {
		if got := svc.ConfirmMapping(ctx, "Tüte", domain.IgnoreCatalogID); got != domain.DecisionIgnored {
			t.Errorf("ConfirmMapping(ignore) = %s, want ignored", got)
		}
		if got := svc.ConfirmMapping(ctx, "Tüte", ""); got != domain.DecisionUnresolved {
			t.Errorf("ConfirmMapping(\"\") = %s, want unresolved", got)
		}
		if _, ok := svc.Mappings()["Tüte"]; ok {
			t.Error("Tüte was learned, want no mapping")
		}
	})
}

func TestScanImage(t *testing.T) {
	ctx := context.Background()

	t.Run("runs OCR then parses against the catalog", func(t *testing.T) {
		ocr := &mockOCRProvider{text: reweReceipt}
		svc := newTestScanService(nil, ocr, &mockInventory{products: testCatalog})

		result, err := svc.ScanImage(ctx, []byte("jpeg"))
		if err != nil {
			t.Fatalf("ScanImage() error = %v", err)
		}
		if ocr.calls != 1 {
			t.Errorf("OCR calls = %d, want 1", ocr.calls)
		}
		if result.Shop != domain.ShopRewe || len(result.Items) != 3 {
			t.Errorf("got %s with %d items, want REWE with 3", result.Shop, len(result.Items))
		}
	})

	t.Run("rejects empty images", func(t *testing.T) {
		svc := newTestScanService(nil, nil, nil)
		_, err := svc.ScanImage(ctx, nil)
		if !errors.Is(err, domain.ErrEmptyImage) {
			t.Errorf("error = %v, want ErrEmptyImage", err)
		}
	})

	t.Run("OCR failure fails the whole receipt", func(t *testing.T) {
		svc := newTestScanService(nil, &mockOCRProvider{err: errors.New("tesseract crashed")}, nil)
		_, err := svc.ScanImage(ctx, []byte("jpeg"))
		if !errors.Is(err, domain.ErrOCRFailure) {
			t.Errorf("error = %v, want ErrOCRFailure", err)
		}
	})

	t.Run("catalog failure degrades to New items", func(t *testing.T) {
		inv := &mockInventory{listErr: domain.ErrGrocyAPIFailure}
		svc := newTestScanService(nil, &mockOCRProvider{text: reweReceipt}, inv)

		result, err := svc.ScanImage(ctx, []byte("jpeg"))
		if err != nil {
			t.Fatalf("ScanImage() error = %v, want nil", err)
		}
		for _, item := range result.Items {
			if item.MatchInfo != domain.MatchNew {
				t.Errorf("item %q MatchInfo = %q, want New", item.OCRName, item.MatchInfo)
			}
		}
	})
}

func TestProducts(t *testing.T) {
	ctx := context.Background()

	svc := newTestScanService(nil, nil, &mockInventory{products: testCatalog})
	products, err := svc.Products(ctx)
	if err != nil || len(products) != len(testCatalog) {
		t.Errorf("Products() = %d, %v; want %d products", len(products), err, len(testCatalog))
	}

	failing := newTestScanService(nil, nil, &mockInventory{listErr: errors.New("connection refused")})
	if _, err := failing.Products(ctx); !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("error = %v, want ErrCatalogUnavailable", err)
	}
}
