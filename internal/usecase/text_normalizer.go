package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	lineBreakPattern  = regexp.MustCompile(`\r\n?`)
	blankPattern      = regexp.MustCompile(`[\t\f\v]+`)
	multiSpacePattern = regexp.MustCompile(` {2,}`)
)

// NormalizeOCRText composes accented characters, unifies line breaks and collapses
// runs of blanks. Tabs, form feeds and vertical tabs count as blanks. Line structure is preserved.
func NormalizeOCRText(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	text = lineBreakPattern.ReplaceAllString(text, "\n")
	text = blankPattern.ReplaceAllString(text, " ")
	text = strings.Map(func(r rune) rune {
		if r != '\n' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	return multiSpacePattern.ReplaceAllString(text, " ")
}
