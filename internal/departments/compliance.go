package departments

import (
	"fmt"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/models"
)

// ComplianceHandler turns regulatory announcements into an impact
// assessment for the rest of the firm.
type ComplianceHandler struct{}

func (ComplianceHandler) Handle(d *Department, task *models.Task) *models.Result {
	if task.Type != consts.TaskRegulatoryAnalysis {
		return nil
	}

	content, _ := task.Payload["content"].(string)
	d.SetKnowledge("latest_regulation", content)
	d.SendInternalMessage(
		fmt.Sprintf("Risk & Compliance has analysed a regulatory development and flags it for divisional review: %s", content),
		nil, map[string]any{"kind": "regulatory_alert"})

	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message:  "Risk & Compliance has completed its impact assessment of the regulatory development.",
		Data:     map[string]any{"content": content},
	}
}
