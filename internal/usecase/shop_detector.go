package usecase

import (
	"strings"

	"github.com/grocyscan/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// shopKeywords are checked in order; the first keyword found wins
var shopKeywords = []struct {
	keyword string
	shop    domain.ShopTag
}{
	{"lidl", domain.ShopLidl},
	{"rewe", domain.ShopRewe},
	{"aldi", domain.ShopAldi},
}

// ShopProfile describes how receipts of one shop are read
type ShopProfile struct {
	// Grammars are tried in order, first match wins
	Grammars []LineGrammar
	// Modifier may rewrite the pending candidate from the following line
	Modifier *ModifierGrammar
	// CarryOver holds each candidate back for one line so Modifier can apply
	CarryOver bool
}

var shopProfiles = map[domain.ShopTag]ShopProfile{
	domain.ShopLidl: {
		Grammars: []LineGrammar{priceTimesQuantityGrammar, genericGrammar},
	},
	domain.ShopRewe: {
		Grammars:  []LineGrammar{taxCodeGrammar, genericGrammar},
		Modifier:  quantityModifierGrammar,
		CarryOver: true,
	},
	domain.ShopAldi: {
		Grammars: []LineGrammar{genericGrammar},
	},
	domain.ShopUnknown: {
		Grammars: []LineGrammar{genericGrammar},
	},
}

// DetectShop classifies a receipt by the first shop keyword found in its text
func DetectShop(text string) domain.ShopTag {
	folded := foldCase(text)
	for _, sk := range shopKeywords {
		if strings.Contains(folded, sk.keyword) {
			return sk.shop
		}
	}
	return domain.ShopUnknown
}

// ProfileFor returns the parsing profile of a shop, falling back to the generic one
func ProfileFor(shop domain.ShopTag) ShopProfile {
	if profile, ok := shopProfiles[shop]; ok {
		return profile
	}
	return shopProfiles[domain.ShopUnknown]
}

// foldCase lowercases with German rules. A Caser keeps state, so one is built per call.
func foldCase(s string) string {
	return cases.Lower(language.German).String(s)
}
