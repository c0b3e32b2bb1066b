// Package classify routes inbound free text to divisions.
package classify

import (
	"strings"

	"github.com/dyike/BrokerGo/consts"
)

// Strategy decides which divisions should handle a piece of text. The
// keyword strategy below is the production implementation; the
// interface exists so a learned classifier can be swapped in without
// touching dispatch or aggregation.
type Strategy interface {
	Classify(text string) []string
}

// KeywordStrategy scores each division by how many of its trigger
// keywords appear as substrings of the text. Matching is case-sensitive
// and un-normalised on purpose; each keyword counts at most once.
//
// Every division tied for the maximum score is returned, not a single
// winner. When nothing matches, the fallback division is returned
// alone.
type KeywordStrategy struct {
	keywords map[string][]string
	order    []string
	fallback string
}

// DefaultKeywords is the static trigger table for the standard roster.
func DefaultKeywords() map[string][]string {
	return map[string][]string{
		consts.InvestmentBanking: {"IPO", "listing", "underwriting", "merger", "acquisition", "bond issuance", "capital raise"},
		consts.SalesTrading:      {"trade", "trading", "stock", "buy", "sell", "market making", "quote", "execution"},
		consts.Research:          {"research", "analysis", "report", "rating", "industry", "trend", "forecast"},
		consts.WealthManagement:  {"wealth", "portfolio", "allocation", "family office", "private client"},
		consts.AssetManagement:   {"fund", "asset management", "product", "mandate", "investment strategy"},
		consts.RiskCompliance:    {"risk", "compliance", "regulatory", "audit", "internal control", "limit breach"},
		consts.Executive:         {"strategy", "partnership", "company", "expansion", "board"},
	}
}

// DefaultOrder fixes the iteration order of the roster so tie-inclusive
// results are deterministic.
func DefaultOrder() []string {
	return []string{
		consts.InvestmentBanking,
		consts.SalesTrading,
		consts.Research,
		consts.WealthManagement,
		consts.AssetManagement,
		consts.RiskCompliance,
		consts.Executive,
	}
}

func NewKeywordStrategy(keywords map[string][]string, order []string, fallback string) *KeywordStrategy {
	return &KeywordStrategy{
		keywords: keywords,
		order:    order,
		fallback: fallback,
	}
}

// NewDefaultStrategy builds the keyword strategy for the standard
// seven-division roster with the executive committee as fallback.
func NewDefaultStrategy() *KeywordStrategy {
	return NewKeywordStrategy(DefaultKeywords(), DefaultOrder(), consts.Executive)
}

func (s *KeywordStrategy) Classify(text string) []string {
	maxScore := 0
	scores := make(map[string]int, len(s.order))
	for _, division := range s.order {
		score := 0
		for _, keyword := range s.keywords[division] {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		scores[division] = score
		if score > maxScore {
			maxScore = score
		}
	}

	if maxScore == 0 {
		return []string{s.fallback}
	}

	var targets []string
	for _, division := range s.order {
		if scores[division] == maxScore {
			targets = append(targets, division)
		}
	}
	return targets
}
