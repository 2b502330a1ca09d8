package usecase

import "testing"

func TestNormalizeOCRText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"windows line breaks", "Milch 1,19\r\nBrot 2,49\r\n", "Milch 1,19\nBrot 2,49\n"},
		{"old mac line breaks", "Milch 1,19\rBrot 2,49", "Milch 1,19\nBrot 2,49"},
		{"tabs become spaces", "Erbsen 500g\t\t1,78 A", "Erbsen 500g 1,78 A"},
		{"form feed and vertical tab become spaces", "Milch\f1,19\vA", "Milch 1,19 A"},
		{"collapses blanks", "Gouda   48%    2,49", "Gouda 48% 2,49"},
		{"strips control characters", "Tee\x00 1,99\x07", "Tee 1,99"},
		{"composes decomposed umlauts", "Mu\u0308sli 2,99", "M\u00fcsli 2,99"},
		{"keeps blank lines", "A 1,00\n\nB 2,00", "A 1,00\n\nB 2,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeOCRText(tt.input); got != tt.want {
				t.Errorf("NormalizeOCRText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
