package banking

import (
	"testing"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/departments"
	"github.com/dyike/BrokerGo/internal/models"
)

func newBook(t *testing.T) (*InvestmentBanking, *departments.Department) {
	t.Helper()
	book := New(nil)
	div := departments.New(consts.InvestmentBanking, "Investment Banking",
		departments.WithHandler(book),
		departments.WithViewpoint(book.Viewpoint),
	)
	return book, div
}

func targetsOf(msgs []models.InternalMessage) []string {
	var out []string
	for _, msg := range msgs {
		out = append(out, msg.Targets...)
	}
	return out
}

func TestIPOOpensDealAndNotifies(t *testing.T) {
	book, div := newBook(t)

	div.AddTask(models.NewTask(consts.TaskIPOUnderwriting, map[string]any{"company": "Nimbus Robotics"}))
	results := div.ProcessAll()
	if len(results) != 1 || results[0].Status != models.ResultCompleted {
		t.Fatalf("results = %+v, want one completed", results)
	}

	deals := book.ActiveDeals()
	if len(deals) != 1 {
		t.Fatalf("active deals = %d, want 1", len(deals))
	}
	deal := deals[0]
	if deal.Type != DealIPO || deal.Client != "Nimbus Robotics" {
		t.Fatalf("deal = %+v", deal)
	}
	if deal.Timeline != "6-9 months" {
		t.Fatalf("timeline = %q", deal.Timeline)
	}
	if deal.Status != models.DealInProgress {
		t.Fatalf("status = %s", deal.Status)
	}
	if len(deal.NextSteps) == 0 {
		t.Fatal("an opened deal carries next steps")
	}

	targets := targetsOf(div.DrainOutbox())
	want := map[string]bool{consts.Research: true, consts.RiskCompliance: true}
	for _, target := range targets {
		delete(want, target)
	}
	if len(want) != 0 {
		t.Fatalf("missing notifications for %v", want)
	}
}

func TestBondIssuanceTimelineAndTargets(t *testing.T) {
	book, div := newBook(t)

	div.AddTask(models.NewTask(consts.TaskBondIssuance, map[string]any{"issuer": "Meridian Utilities"}))
	div.ProcessAll()

	deal := book.ActiveDeals()[0]
	if deal.Type != DealBond || deal.Timeline != "2-3 months" {
		t.Fatalf("deal = %+v", deal)
	}

	targets := targetsOf(div.DrainOutbox())
	seen := map[string]bool{}
	for _, target := range targets {
		seen[target] = true
	}
	if !seen[consts.SalesTrading] || !seen[consts.RiskCompliance] {
		t.Fatalf("targets = %v, want sales & trading and risk & compliance", targets)
	}
}

func TestMAAdvisoryRecordsCounterparty(t *testing.T) {
	book, div := newBook(t)

	div.AddTask(models.NewTask(consts.TaskMAAdvisory, map[string]any{
		"client": "Atlas Holdings",
		"target": "Borealis Foods",
	}))
	div.ProcessAll()

	deal := book.ActiveDeals()[0]
	if deal.Counterparty != "Borealis Foods" {
		t.Fatalf("counterparty = %q", deal.Counterparty)
	}
	if deal.Timeline != "3-6 months" {
		t.Fatalf("timeline = %q", deal.Timeline)
	}

	targets := targetsOf(div.DrainOutbox())
	if len(targets) != 1 || targets[0] != consts.Research {
		t.Fatalf("targets = %v, want research only", targets)
	}
}

func TestFinancingAdvisoryDefaultsClient(t *testing.T) {
	book, div := newBook(t)

	div.AddTask(models.NewTask(consts.TaskFinancingAdvisory, nil))
	results := div.ProcessAll()

	deal := book.ActiveDeals()[0]
	if deal.Client != "an unnamed client" {
		t.Fatalf("client = %q", deal.Client)
	}
	if deal.Timeline != "1-2 months" {
		t.Fatalf("timeline = %q", deal.Timeline)
	}
	if results[0].Data["estimated_timeline"] != "1-2 months" {
		t.Fatalf("result data = %+v", results[0].Data)
	}

	targets := targetsOf(div.DrainOutbox())
	if len(targets) != 1 || targets[0] != consts.AssetManagement {
		t.Fatalf("targets = %v, want asset management", targets)
	}
}

func TestCompleteDealMovesToHistory(t *testing.T) {
	book, div := newBook(t)

	div.AddTask(models.NewTask(consts.TaskIPOUnderwriting, map[string]any{"company": "Nimbus Robotics"}))
	div.ProcessAll()
	div.DrainOutbox()
	deal := book.ActiveDeals()[0]

	err := book.CompleteDeal(div, deal.ID, models.DealCompleted, map[string]any{"proceeds": "450M"})
	if err != nil {
		t.Fatalf("CompleteDeal: %v", err)
	}
	if len(book.ActiveDeals()) != 0 {
		t.Fatal("completed deal still listed as active")
	}
	history := book.History()
	if len(history) != 1 || history[0].Status != models.DealCompleted {
		t.Fatalf("history = %+v", history)
	}
	if history[0].CompletedAt == nil {
		t.Fatal("completion timestamp not set")
	}
	if history[0].Results["proceeds"] != "450M" {
		t.Fatalf("results = %+v", history[0].Results)
	}

	targets := targetsOf(div.DrainOutbox())
	if len(targets) != 1 || targets[0] != consts.Executive {
		t.Fatalf("targets = %v, want executive", targets)
	}
}

func TestCompleteDealUnknownID(t *testing.T) {
	book, div := newBook(t)
	if err := book.CompleteDeal(div, "no-such-deal", models.DealCompleted, nil); err == nil {
		t.Fatal("expected an error for an unknown deal id")
	}
}

func TestBankingStatusCountsCompletedOnly(t *testing.T) {
	book, div := newBook(t)

	div.AddTask(models.NewTask(consts.TaskIPOUnderwriting, map[string]any{"company": "A"}))
	div.AddTask(models.NewTask(consts.TaskBondIssuance, map[string]any{"issuer": "B"}))
	div.ProcessAll()

	first := book.ActiveDeals()[0]
	if err := book.CompleteDeal(div, first.ID, models.DealWithdrawn, nil); err != nil {
		t.Fatalf("CompleteDeal: %v", err)
	}

	status := book.Status()
	if status.ActiveDeals != 1 {
		t.Fatalf("active = %d, want 1", status.ActiveDeals)
	}
	if status.CompletedDeals != 0 {
		t.Fatalf("completed = %d, want 0 (withdrawn does not count)", status.CompletedDeals)
	}
}
