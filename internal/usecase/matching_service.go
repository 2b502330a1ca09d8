package usecase

import (
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/grocyscan/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// defaultMaxEdits caps the accepted edit distance regardless of name length
const defaultMaxEdits = 4

// MappingLookup exposes learned OCR name -> catalog id mappings
type MappingLookup interface {
	Lookup(ocrName string) (string, bool)
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MaxEdits           int
	EnableDebugLogging bool
}

// MatchingService resolves OCR item names to catalog products
type MatchingService struct {
	mappings           MappingLookup
	maxEdits           int
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(mappings MappingLookup, config MatchConfig) *MatchingService {
	maxEdits := config.MaxEdits
	if maxEdits <= 0 {
		maxEdits = defaultMaxEdits
	}

	return &MatchingService{
		mappings:           mappings,
		maxEdits:           maxEdits,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Resolve matches a finalized candidate against learned mappings first, then the catalog.
// Order: learned lookup, case-insensitive exact name, nearest name by edit distance.
func (s *MatchingService) Resolve(candidate domain.ParsedCandidate, catalog []domain.CatalogEntry) domain.ResolvedItem {
	item := domain.ResolvedItem{
		OCRName:   candidate.Name,
		Quantity:  decimal.NewFromInt(int64(candidate.Quantity)),
		UnitPrice: candidate.UnitPrice,
		MatchInfo: domain.MatchNew,
	}

	if s.mappings != nil {
		if id, ok := s.mappings.Lookup(candidate.Name); ok {
			item.CatalogID = id
			item.CatalogName = catalogName(catalog, id)
			item.MatchInfo = domain.MatchLearned
			return item
		}
	}

	best, distance, found := s.findBestMatch(candidate.Name, catalog)
	if !found {
		if s.enableDebugLogging {
			log.Printf("[MATCH] No confident match for %q", candidate.Name)
		}
		return item
	}

	item.CatalogID = best.ID
	item.CatalogName = best.Name
	item.MatchInfo = autoMatchInfo(distance)
	return item
}

// findBestMatch returns the closest catalog entry if it is within the allowed edit budget
func (s *MatchingService) findBestMatch(ocrName string, catalog []domain.CatalogEntry) (domain.CatalogEntry, int, bool) {
	if len(catalog) == 0 {
		return domain.CatalogEntry{}, 0, false
	}

	searchName := foldCase(ocrName)

	for _, entry := range catalog {
		if foldCase(entry.Name) == searchName {
			return entry, 0, true
		}
	}

	var bestMatch domain.CatalogEntry
	lowestDistance := -1
	for _, entry := range catalog {
		dist := levenshteinDistance(searchName, foldCase(entry.Name))
		if lowestDistance < 0 || dist < lowestDistance {
			lowestDistance = dist
			bestMatch = entry
		}
	}

	allowed := s.maxAllowedEdits(searchName)
	if s.enableDebugLogging {
		log.Printf("[MATCH] %q -> %q (distance %d, allowed %d)", ocrName, bestMatch.Name, lowestDistance, allowed)
	}
	if lowestDistance > allowed {
		return domain.CatalogEntry{}, lowestDistance, false
	}
	return bestMatch, lowestDistance, true
}

// maxAllowedEdits scales with name length so short names must match closely
func (s *MatchingService) maxAllowedEdits(searchName string) int {
	return min(s.maxEdits, utf8.RuneCountInString(searchName)/3)
}

func catalogName(catalog []domain.CatalogEntry, id string) string {
	for _, entry := range catalog {
		if entry.ID == id {
			return entry.Name
		}
	}
	return "ID: " + id
}

func autoMatchInfo(distance int) string {
	return fmt.Sprintf("Auto (%d)", distance)
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
