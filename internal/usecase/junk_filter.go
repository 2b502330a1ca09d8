package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// receiptBoilerplate lists receipt tokens that never name a purchasable item.
// Matched case-sensitively as substrings. A bare "%" is deliberately absent:
// it shows up in product names like "Gouda 48%".
var receiptBoilerplate = []string{
	"Summe", "MWST", "Netto", "Brutto", "Betrag", "EUR", "Total", "Ergebnis",
	"Visa", "Karte", "Kreditkarte", "zu zahlen", "Preisvorteil", "Pfand",
	"Leergut", "B 19", "A 7", "Datum", "Uhrzeit", "Bon", "Filiale", "Händler", "Beleg",
	"Gesamtbetrag", "Geg.", "Mastercard", "Kundenbeleg", "Trace-Nr", "Terminal-ID", "UID Nr",
	"Konzessionär", "Steuer",
}

// IsJunk reports whether a candidate name is receipt noise rather than an item
func IsJunk(name string) bool {
	if utf8.RuneCountInString(name) < 2 {
		return true
	}

	letters, digits := 0, 0
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	if digits > letters {
		return true
	}

	for _, token := range receiptBoilerplate {
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}
