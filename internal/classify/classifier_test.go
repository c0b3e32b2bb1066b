package classify

import (
	"testing"

	"github.com/dyike/BrokerGo/consts"
)

func TestClassifySingleWinner(t *testing.T) {
	s := NewDefaultStrategy()

	targets := s.Classify("We are planning an IPO listing and need underwriting support")
	if len(targets) != 1 || targets[0] != consts.InvestmentBanking {
		t.Fatalf("targets = %v, want [investment_banking]", targets)
	}
}

func TestClassifyFallbackWhenNothingMatches(t *testing.T) {
	s := NewDefaultStrategy()

	targets := s.Classify("hello there")
	if len(targets) != 1 || targets[0] != consts.Executive {
		t.Fatalf("targets = %v, want [executive]", targets)
	}
}

func TestClassifyIncludesAllTiedDivisions(t *testing.T) {
	s := NewKeywordStrategy(map[string][]string{
		"alpha": {"deal"},
		"beta":  {"deal"},
	}, []string{"alpha", "beta"}, "omega")

	targets := s.Classify("a new deal arrived")
	if len(targets) != 2 || targets[0] != "alpha" || targets[1] != "beta" {
		t.Fatalf("targets = %v, want [alpha beta]", targets)
	}
}

func TestClassifyCaseSensitive(t *testing.T) {
	s := NewDefaultStrategy()

	// "ipo" must not match the "IPO" trigger.
	targets := s.Classify("thinking about an ipo")
	if len(targets) != 1 || targets[0] != consts.Executive {
		t.Fatalf("targets = %v, want fallback for lowercase ipo", targets)
	}
}

func TestClassifyKeywordCountsOnce(t *testing.T) {
	s := NewKeywordStrategy(map[string][]string{
		"alpha": {"deal"},
		"beta":  {"merger", "counsel"},
	}, []string{"alpha", "beta"}, "omega")

	// "deal" appears three times but still scores one; beta's two
	// distinct keywords win.
	targets := s.Classify("deal deal deal merger counsel")
	if len(targets) != 1 || targets[0] != "beta" {
		t.Fatalf("targets = %v, want [beta]", targets)
	}
}

func TestClassifySubstringMatching(t *testing.T) {
	s := NewDefaultStrategy()

	// "trade" matches inside "trades".
	targets := s.Classify("please review my trades")
	if len(targets) != 1 || targets[0] != consts.SalesTrading {
		t.Fatalf("targets = %v, want [sales_trading]", targets)
	}
}
