package departments

import (
	"fmt"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/models"
)

// ResearchHandler screens trading opportunities against the division's
// risk tolerance and publishes commentary on market updates.
type ResearchHandler struct{}

func (ResearchHandler) Handle(d *Department, task *models.Task) *models.Result {
	switch task.Type {
	case consts.TaskOpportunityAnalysis:
		return assessOpportunity(d, task)
	case consts.TaskMarketUpdate:
		return marketCommentary(d, task)
	default:
		return nil
	}
}

func assessOpportunity(d *Department, task *models.Task) *models.Result {
	content, _ := task.Payload["content"].(string)
	payload, _ := task.Payload["payload"].(map[string]any)

	riskLevel := 0.5
	if payload != nil {
		if v, ok := payload["risk_level"].(float64); ok {
			riskLevel = v
		}
	}

	if riskLevel > d.RiskTolerance {
		return &models.Result{
			TaskID:   task.ID,
			Division: d.ID,
			Status:   models.ResultRejected,
			Message: fmt.Sprintf("Research assesses the opportunity as too risky (%.2f against a tolerance of %.2f) and does not endorse it.",
				riskLevel, d.RiskTolerance),
			Data: map[string]any{"risk_level": riskLevel, "content": content},
		}
	}
	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message:  "Research endorses the opportunity and recommends forwarding it to the trading desk.",
		Data:     map[string]any{"risk_level": riskLevel, "content": content},
	}
}

func marketCommentary(d *Department, task *models.Task) *models.Result {
	content, _ := task.Payload["content"].(string)
	d.SetKnowledge("latest_market_note", content)
	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message:  "Research has updated its market outlook with the latest data.",
		Data:     map[string]any{"content": content},
	}
}
