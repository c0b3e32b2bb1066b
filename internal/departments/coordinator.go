package departments

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/models"
)

// CoordinatorHandler is the executive committee's domain logic. Its one
// specialty is mediation: turning a set of conflicting division
// viewpoints into a single directive. Everything else falls through to
// the default result.
type CoordinatorHandler struct{}

func (CoordinatorHandler) Handle(d *Department, task *models.Task) *models.Result {
	switch task.Type {
	case consts.TaskConflictResolution:
		// handled below
	case consts.TaskRegulatoryResponse:
		return handleRegulatoryResponse(d, task)
	default:
		return nil
	}

	issue, _ := task.Payload["issue"].(string)
	viewpoints, _ := task.Payload["viewpoints"].(map[string]models.Viewpoint)

	divisions := make([]string, 0, len(viewpoints))
	for id := range viewpoints {
		divisions = append(divisions, id)
	}
	sort.Strings(divisions)

	decision := fmt.Sprintf(
		"Decision on %q: having weighed the positions of %s, the committee directs the divisions to proceed in a coordinated manner, with the more conservative risk assessment taking precedence wherever the assessments disagree.",
		issue, strings.Join(divisions, ", "))

	data := map[string]any{"issue": issue}
	if len(viewpoints) > 0 {
		data["viewpoints"] = viewpoints
	}

	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message:  decision,
		Data:     data,
	}
}

// handleRegulatoryResponse acknowledges an escalation from risk &
// compliance and directs the affected divisions to adjust.
func handleRegulatoryResponse(d *Department, task *models.Task) *models.Result {
	content, _ := task.Payload["content"].(string)
	source, _ := task.Payload["source"].(string)

	d.SendInternalMessage(
		fmt.Sprintf("The committee has reviewed the regulatory development escalated by %s and directs all divisions to align their activities accordingly: %s", source, content),
		nil, map[string]any{"kind": "regulatory_directive"})

	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message:  "The committee has issued a firm-wide directive in response to the regulatory development.",
		Data:     map[string]any{"content": content, "escalated_by": source},
	}
}
