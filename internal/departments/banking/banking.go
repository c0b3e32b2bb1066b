// Package banking implements the investment banking division: IPO
// underwriting, bond issuance, M&A and financing advisory mandates,
// each tracked as a long-lived deal.
package banking

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/departments"
	"github.com/dyike/BrokerGo/internal/models"
)

const (
	DealIPO       = "ipo"
	DealBond      = "bond"
	DealMA        = "ma"
	DealFinancing = "financing"
)

type InvestmentBanking struct {
	deals   []*models.Deal
	history []*models.Deal
	logger  *zap.Logger
}

func New(logger *zap.Logger) *InvestmentBanking {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvestmentBanking{logger: logger.Named("investment_banking")}
}

func (b *InvestmentBanking) Handle(d *departments.Department, task *models.Task) *models.Result {
	switch task.Type {
	case consts.TaskIPOUnderwriting:
		return b.handleIPO(d, task)
	case consts.TaskBondIssuance:
		return b.handleBond(d, task)
	case consts.TaskMAAdvisory:
		return b.handleMA(d, task)
	case consts.TaskFinancingAdvisory:
		return b.handleFinancing(d, task)
	}
	return nil
}

func (b *InvestmentBanking) handleIPO(d *departments.Department, task *models.Task) *models.Result {
	client := clientFromTask(task, "company")
	deal := b.open(DealIPO, client, task)
	deal.NextSteps = []string{
		"conduct due diligence",
		"assess market conditions",
		"structure the offering",
		"prepare roadshow materials",
		"engage with the regulator",
	}
	deal.Timeline = "6-9 months"

	d.SendInternalMessage(
		fmt.Sprintf("Preparing an IPO underwriting for %s; industry research support requested.", client),
		[]string{consts.Research}, nil)
	d.SendInternalMessage(
		fmt.Sprintf("Preparing an IPO underwriting for %s; compliance review requested.", client),
		[]string{consts.RiskCompliance}, nil)

	return b.dealResult(d, task, deal,
		fmt.Sprintf("We have received the IPO underwriting request from %s and will begin assessment and preparation.", client))
}

func (b *InvestmentBanking) handleBond(d *departments.Department, task *models.Task) *models.Result {
	issuer := clientFromTask(task, "issuer")
	deal := b.open(DealBond, issuer, task)
	deal.NextSteps = []string{
		"assess issuer credit standing",
		"determine bond type and tenor",
		"set the pricing strategy",
		"prepare offering documents",
		"assemble the underwriting syndicate",
	}
	deal.Timeline = "2-3 months"

	d.SendInternalMessage(
		fmt.Sprintf("Preparing a bond issuance for %s; distribution readiness requested.", issuer),
		[]string{consts.SalesTrading}, nil)
	d.SendInternalMessage(
		fmt.Sprintf("Preparing a bond issuance for %s; risk assessment requested.", issuer),
		[]string{consts.RiskCompliance}, nil)

	return b.dealResult(d, task, deal,
		fmt.Sprintf("We have received the bond issuance request from %s and will begin assessment and preparation.", issuer))
}

func (b *InvestmentBanking) handleMA(d *departments.Department, task *models.Task) *models.Result {
	client := clientFromTask(task, "client")
	target, _ := task.Payload["target"].(string)
	if target == "" {
		target = "the target company"
	}
	deal := b.open(DealMA, client, task)
	deal.Counterparty = target
	deal.NextSteps = []string{
		"perform target due diligence",
		"evaluate deal structure and pricing",
		"design the financing plan",
		"prepare transaction documents",
		"coordinate execution",
	}
	deal.Timeline = "3-6 months"

	d.SendInternalMessage(
		fmt.Sprintf("Advising %s on the acquisition of %s; industry and target research requested.", client, target),
		[]string{consts.Research}, nil)

	return b.dealResult(d, task, deal,
		fmt.Sprintf("We have received the advisory request from %s regarding %s and will begin assessment and preparation.", client, target))
}

func (b *InvestmentBanking) handleFinancing(d *departments.Department, task *models.Task) *models.Result {
	client := clientFromTask(task, "client")
	deal := b.open(DealFinancing, client, task)
	deal.NextSteps = []string{
		"assess financing needs and purpose",
		"analyse available funding channels",
		"design the financing structure",
		"evaluate cost and risk",
		"draw up the implementation plan",
	}
	deal.Timeline = "1-2 months"

	d.SendInternalMessage(
		fmt.Sprintf("Advising %s on financing; asset management support may be required.", client),
		[]string{consts.AssetManagement}, nil)

	return b.dealResult(d, task, deal,
		fmt.Sprintf("We have received the financing advisory request from %s and will begin assessment and structuring.", client))
}

func (b *InvestmentBanking) open(dealType, client string, task *models.Task) *models.Deal {
	details, _ := task.Payload["details"].(map[string]any)
	deal := models.NewDeal(dealType, client, details)
	b.deals = append(b.deals, deal)
	b.logger.Info("deal opened",
		zap.String("deal_id", deal.ID),
		zap.String("type", dealType),
		zap.String("client", client))
	return deal
}

func (b *InvestmentBanking) dealResult(d *departments.Department, task *models.Task, deal *models.Deal, message string) *models.Result {
	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message:  message,
		Data: map[string]any{
			"deal":               deal,
			"next_steps":         deal.NextSteps,
			"estimated_timeline": deal.Timeline,
		},
	}
}

// CompleteDeal closes an active deal into the history log and informs
// the executive committee.
func (b *InvestmentBanking) CompleteDeal(d *departments.Department, dealID string, status models.DealStatus, results map[string]any) error {
	for i, deal := range b.deals {
		if deal.ID != dealID {
			continue
		}
		b.deals = append(b.deals[:i], b.deals[i+1:]...)
		deal.Status = status
		now := time.Now()
		deal.CompletedAt = &now
		deal.Results = results
		b.history = append(b.history, deal)

		d.SendInternalMessage(
			fmt.Sprintf("Investment banking closed a %s deal for %s with status %s.", deal.Type, deal.Client, status),
			[]string{consts.Executive}, nil)
		b.logger.Info("deal closed",
			zap.String("deal_id", deal.ID),
			zap.String("status", string(status)))
		return nil
	}
	return fmt.Errorf("complete deal %s: not an active deal", dealID)
}

// ActiveDeals and History expose the deal books.
func (b *InvestmentBanking) ActiveDeals() []*models.Deal {
	out := make([]*models.Deal, len(b.deals))
	copy(out, b.deals)
	return out
}

func (b *InvestmentBanking) History() []*models.Deal {
	out := make([]*models.Deal, len(b.history))
	copy(out, b.history)
	return out
}

// Viewpoint is the banking division's stance during conflict mediation.
func (b *InvestmentBanking) Viewpoint(issue string) models.Viewpoint {
	return models.Viewpoint{
		Division: consts.InvestmentBanking,
		Perspective: fmt.Sprintf("From an investment banking standpoint, %s may touch financing, M&A or capital markets activity; the impact on existing clients and live mandates should be assessed alongside regulatory requirements.",
			issue),
		RiskLabel:      "medium",
		Opportunity:    "possible new mandates",
		Recommendation: "Analyse the market impact further and sound out client demand.",
	}
}

// Status is the banking snapshot added onto the base division report.
type Status struct {
	ActiveDeals    int `json:"active_deals"`
	CompletedDeals int `json:"completed_deals"`
}

func (b *InvestmentBanking) Status() Status {
	completed := 0
	for _, deal := range b.history {
		if deal.Status == models.DealCompleted {
			completed++
		}
	}
	return Status{ActiveDeals: len(b.deals), CompletedDeals: completed}
}

func clientFromTask(task *models.Task, key string) string {
	if v, ok := task.Payload[key].(string); ok && v != "" {
		return v
	}
	return "an unnamed client"
}
