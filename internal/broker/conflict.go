package broker

import (
	"time"

	"go.uber.org/zap"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/models"
)

// ResolveConflict mediates a disagreement between divisions. Each
// conflicting division states its viewpoint, the coordinating division
// rules on the collected positions, and the ruling is broadcast back to
// the parties. The second return is false when no ruling was produced,
// which is an outcome, not an error.
func (b *Broker) ResolveConflict(issue string, conflicting []string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	viewpoints := make(map[string]models.Viewpoint, len(conflicting))
	for _, id := range conflicting {
		d, err := b.registry.Get(id)
		if err != nil {
			b.logger.Warn("conflict party unknown", zap.String("division", id))
			continue
		}
		viewpoints[id] = d.Viewpoint(issue)
	}

	coordinator, err := b.registry.Get(b.coordinator)
	if err != nil {
		b.logger.Warn("no coordinating division registered",
			zap.String("coordinator", b.coordinator))
		return "", false
	}

	task := models.NewTask(consts.TaskConflictResolution, map[string]any{
		"issue":      issue,
		"viewpoints": viewpoints,
	})
	coordinator.AddTask(task)

	var decision string
	for _, result := range coordinator.ProcessAll() {
		if result.TaskID == task.ID && result.Status == models.ResultCompleted {
			decision = result.Message
		}
	}
	if decision == "" {
		return "", false
	}

	announcement := models.InternalMessage{
		Sender:  b.coordinator,
		Targets: conflicting,
		Content: decision,
		Metadata: map[string]any{
			"kind":  "conflict_decision",
			"issue": issue,
		},
		Timestamp: time.Now(),
	}
	b.deliver(announcement)
	b.logger.Info("conflict resolved",
		zap.String("issue", issue),
		zap.Strings("parties", conflicting))
	return decision, true
}
