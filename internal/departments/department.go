// Package departments holds the division base type: its task queue,
// admission control, internal messaging and bookkeeping. Domain logic
// lives in the subpackages and plugs in through Handler.
package departments

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dyike/BrokerGo/internal/models"
)

// Handler runs a division's domain logic for one admitted task.
type Handler interface {
	Handle(d *Department, task *models.Task) *models.Result
}

// AdmissionFunc gates a pending task. Returning false leaves the task
// pending for the next round; it is not a rejection.
type AdmissionFunc func(task *models.Task) bool

// ViewpointFunc produces a division's structured stance on an issue.
// It stands in for the external response-generation collaborator and is
// assumed synchronous.
type ViewpointFunc func(issue string) models.Viewpoint

// DecisionRecord is one entry in a division's append-only decision log.
type DecisionRecord struct {
	Type      string    `json:"type"`
	Issue     string    `json:"issue,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Department is one business unit: a node in the internal network with
// its own FIFO task queue and domain handler. All state is owned by a
// single logical writer (the broker round loop).
type Department struct {
	ID            string
	Name          string
	Description   string
	RiskTolerance float64
	Expertise     []string

	Performance map[string]float64
	Knowledge   map[string]any
	DecisionLog []DecisionRecord

	pending   []*models.Task
	completed []models.CompletedTask
	inbox     []models.InternalMessage
	outbox    []models.InternalMessage

	handler   Handler
	admission AdmissionFunc
	viewpoint ViewpointFunc
	policy    DecisionPolicy
	logger    *zap.Logger
}

type Option func(*Department)

func WithDescription(desc string) Option {
	return func(d *Department) { d.Description = desc }
}

func WithRiskTolerance(tolerance float64) Option {
	return func(d *Department) { d.RiskTolerance = tolerance }
}

func WithExpertise(areas ...string) Option {
	return func(d *Department) { d.Expertise = areas }
}

func WithHandler(h Handler) Option {
	return func(d *Department) { d.handler = h }
}

func WithAdmission(fn AdmissionFunc) Option {
	return func(d *Department) { d.admission = fn }
}

func WithViewpoint(fn ViewpointFunc) Option {
	return func(d *Department) { d.viewpoint = fn }
}

func WithDecisionPolicy(p DecisionPolicy) Option {
	return func(d *Department) { d.policy = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Department) { d.logger = logger.Named(d.ID) }
}

func New(id, name string, opts ...Option) *Department {
	d := &Department{
		ID:            id,
		Name:          name,
		RiskTolerance: 0.5,
		Performance: map[string]float64{
			"revenue":             0,
			"cost":                0,
			"client_satisfaction": 0,
			"compliance_score":    1,
		},
		Knowledge: make(map[string]any),
		policy:    UnimplementedPolicy{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddTask appends a task to the pending queue.
func (d *Department) AddTask(task *models.Task) {
	d.pending = append(d.pending, task)
}

// PendingCount reports how many tasks are waiting.
func (d *Department) PendingCount() int { return len(d.pending) }

// Completed returns the completion log.
func (d *Department) Completed() []models.CompletedTask { return d.completed }

// Admits applies the admission predicate. The default admits
// everything.
func (d *Department) Admits(task *models.Task) bool {
	if d.admission == nil {
		return true
	}
	return d.admission(task)
}

// ProcessAll drains the queue once, in insertion order. Admitted tasks
// run the handler and move to the completion log; tasks that fail
// admission stay pending in their original relative order. Tasks the
// handler enqueues as a side effect are kept for the next round, after
// the retained ones.
func (d *Department) ProcessAll() []*models.Result {
	if len(d.pending) == 0 {
		return nil
	}

	tasks := d.pending
	d.pending = nil

	var retained []*models.Task
	var results []*models.Result
	for _, task := range tasks {
		if !d.Admits(task) {
			retained = append(retained, task)
			continue
		}

		result := d.handle(task)
		if result.Status == models.ResultRejected {
			task.Status = models.TaskRejected
		} else {
			task.Status = models.TaskCompleted
		}
		d.completed = append(d.completed, models.CompletedTask{
			Task:       task,
			Result:     result,
			FinishedAt: time.Now(),
		})
		results = append(results, result)
		d.logger.Debug("task processed",
			zap.String("task_id", task.ID),
			zap.String("type", task.Type),
			zap.String("status", result.Status))
	}

	d.pending = append(retained, d.pending...)
	return results
}

func (d *Department) handle(task *models.Task) *models.Result {
	if d.handler != nil {
		if result := d.handler.Handle(d, task); result != nil {
			return result
		}
	}
	return d.defaultResult(task)
}

func (d *Department) defaultResult(task *models.Task) *models.Result {
	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message:  fmt.Sprintf("%s has processed the request.", d.Name),
	}
}

// SendInternalMessage queues a message for peers. An empty target list
// means "all connected divisions"; the broker resolves that against the
// network at the end of the round. Delivery is never synchronous.
func (d *Department) SendInternalMessage(content string, targets []string, metadata map[string]any) {
	d.outbox = append(d.outbox, models.InternalMessage{
		Sender:    d.ID,
		Targets:   targets,
		Content:   content,
		Metadata:  metadata,
		Timestamp: time.Now(),
	})
}

// DrainOutbox hands the queued outbound messages to the caller and
// clears them.
func (d *Department) DrainOutbox() []models.InternalMessage {
	out := d.outbox
	d.outbox = nil
	return out
}

// ReceiveInternalMessage delivers a peer message into the inbox and
// notes it in the decision log.
func (d *Department) ReceiveInternalMessage(msg models.InternalMessage) {
	d.inbox = append(d.inbox, msg)
	d.DecisionLog = append(d.DecisionLog, DecisionRecord{
		Type:      "message_received",
		Issue:     msg.Content,
		Timestamp: time.Now(),
	})
}

// Inbox returns delivered messages without clearing them.
func (d *Department) Inbox() []models.InternalMessage { return d.inbox }

// ClearInbox empties the inbox after a round has consumed it.
func (d *Department) ClearInbox() { d.inbox = nil }

// Viewpoint asks the division for its stance on an issue.
func (d *Department) Viewpoint(issue string) models.Viewpoint {
	if d.viewpoint != nil {
		return d.viewpoint(issue)
	}
	return models.Viewpoint{
		Division:       d.ID,
		Perspective:    fmt.Sprintf("%s considers that %q needs further analysis before committing.", d.Name, issue),
		RiskLabel:      "undetermined",
		Opportunity:    "undetermined",
		Recommendation: "Gather more information before acting.",
	}
}

// Decide runs the division's decision policy and records the outcome.
func (d *Department) Decide(issue string, options []string) (string, error) {
	decision, err := d.policy.Decide(issue, options)
	if err != nil {
		return "", err
	}
	d.DecisionLog = append(d.DecisionLog, DecisionRecord{
		Type:      "decision",
		Issue:     issue,
		Decision:  decision,
		Timestamp: time.Now(),
	})
	return decision, nil
}

// UpdatePerformance adds the deltas onto known metrics; unknown keys
// are ignored.
func (d *Department) UpdatePerformance(deltas map[string]float64) {
	for key, delta := range deltas {
		if _, ok := d.Performance[key]; ok {
			d.Performance[key] += delta
		}
	}
}

// SetKnowledge and GetKnowledge expose the division knowledge store.
func (d *Department) SetKnowledge(key string, value any) {
	d.Knowledge[key] = value
}

func (d *Department) GetKnowledge(key string) (any, bool) {
	v, ok := d.Knowledge[key]
	return v, ok
}

// StatusReport is the division-level snapshot used by broker reporting.
type StatusReport struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Division       string             `json:"division"`
	PendingTasks   int                `json:"pending_tasks"`
	CompletedTasks int                `json:"completed_tasks"`
	InboxMessages  int                `json:"internal_messages"`
	Performance    map[string]float64 `json:"performance_metrics"`
}

func (d *Department) Status() StatusReport {
	perf := make(map[string]float64, len(d.Performance))
	for k, v := range d.Performance {
		perf[k] = v
	}
	return StatusReport{
		ID:             d.ID,
		Name:           d.Name,
		Division:       d.ID,
		PendingTasks:   len(d.pending),
		CompletedTasks: len(d.completed),
		InboxMessages:  len(d.inbox),
		Performance:    perf,
	}
}
