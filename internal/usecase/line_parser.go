package usecase

import (
	"log"
	"strings"

	"github.com/grocyscan/backend/internal/domain"
)

type parserState int

const (
	// stateIdle holds no candidate
	stateIdle parserState = iota
	// statePending holds one candidate that the next line may still modify
	statePending
)

// LineParser walks receipt lines and finalizes candidates in receipt order.
// A LineParser belongs to a single receipt; create a new one per parse run.
type LineParser struct {
	profile            ShopProfile
	state              parserState
	pending            domain.ParsedCandidate
	finalized          []domain.ParsedCandidate
	enableDebugLogging bool
}

// NewLineParser creates a parser in the idle state for the given shop profile
func NewLineParser(profile ShopProfile, enableDebugLogging bool) *LineParser {
	return &LineParser{
		profile:            profile,
		state:              stateIdle,
		enableDebugLogging: enableDebugLogging,
	}
}

// ParseCandidates splits text into lines, feeds them all and flushes the parser
func (p *LineParser) ParseCandidates(text string) []domain.ParsedCandidate {
	for _, line := range strings.Split(text, "\n") {
		p.Feed(line)
	}
	return p.Flush()
}

// Feed processes one raw line; blank lines are skipped
func (p *LineParser) Feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if p.state == statePending {
		if p.profile.Modifier != nil {
			modified, outcome := p.profile.Modifier.Apply(p.pending, line)
			switch outcome {
			case Matched:
				if p.enableDebugLogging {
					log.Printf("[PARSE] Modifier for %q: amount %d, price %s",
						p.pending.Name, modified.Quantity, modified.UnitPrice)
				}
				p.pending = modified
				p.finalizePending()
				return
			case Malformed:
				if p.enableDebugLogging {
					log.Printf("[PARSE] Dropped malformed modifier for %q: %q", p.pending.Name, line)
				}
				p.finalizePending()
				return
			}
		}
		p.finalizePending()
	}

	candidate, ok := p.parseLine(line)
	if !ok {
		return
	}

	if p.profile.CarryOver {
		p.pending = candidate
		p.state = statePending
		return
	}
	p.finalized = append(p.finalized, candidate)
}

// Flush finalizes a still pending candidate and returns every candidate in order
func (p *LineParser) Flush() []domain.ParsedCandidate {
	if p.state == statePending {
		p.finalizePending()
	}
	return p.finalized
}

func (p *LineParser) finalizePending() {
	p.finalized = append(p.finalized, p.pending)
	p.pending = domain.ParsedCandidate{}
	p.state = stateIdle
}

// parseLine tries the profile grammars in order. A Malformed outcome drops
// the line without trying the remaining grammars.
func (p *LineParser) parseLine(line string) (domain.ParsedCandidate, bool) {
	for _, grammar := range p.profile.Grammars {
		candidate, outcome := grammar.Parse(line)
		switch outcome {
		case Matched:
			if p.enableDebugLogging {
				log.Printf("[PARSE] %s grammar: %q -> %q x%d @ %s",
					grammar.Name, line, candidate.Name, candidate.Quantity, candidate.UnitPrice)
			}
			return candidate, true
		case Malformed:
			if p.enableDebugLogging {
				log.Printf("[PARSE] %s grammar: dropped malformed line %q", grammar.Name, line)
			}
			return domain.ParsedCandidate{}, false
		}
	}
	return domain.ParsedCandidate{}, false
}
