package departments

import (
	"testing"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/models"
)

type staticHandler struct {
	status string
}

func (h staticHandler) Handle(d *Department, task *models.Task) *models.Result {
	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   h.status,
		Message:  "handled",
	}
}

// chainHandler enqueues a follow-up task while handling, like the
// trading desk does for client orders.
type chainHandler struct {
	chained bool
}

func (h *chainHandler) Handle(d *Department, task *models.Task) *models.Result {
	if !h.chained {
		h.chained = true
		follow := models.NewTask("follow_up", nil)
		follow.Sender = d.ID
		d.AddTask(follow)
	}
	return nil
}

func TestProcessAllFIFO(t *testing.T) {
	d := New("ops", "Operations", WithHandler(staticHandler{status: models.ResultCompleted}))

	first := models.NewTask("t", nil)
	second := models.NewTask("t", nil)
	d.AddTask(first)
	d.AddTask(second)

	results := d.ProcessAll()
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].TaskID != first.ID || results[1].TaskID != second.ID {
		t.Fatal("results out of insertion order")
	}
	if d.PendingCount() != 0 {
		t.Fatalf("pending = %d, want 0", d.PendingCount())
	}
	if len(d.Completed()) != 2 {
		t.Fatalf("completed = %d, want 2", len(d.Completed()))
	}
}

func TestProcessAllRetainsNonAdmittedInOrder(t *testing.T) {
	d := New("ops", "Operations",
		WithHandler(staticHandler{status: models.ResultCompleted}),
		WithAdmission(func(task *models.Task) bool {
			return task.Type != "held"
		}))

	heldA := models.NewTask("held", nil)
	run := models.NewTask("run", nil)
	heldB := models.NewTask("held", nil)
	d.AddTask(heldA)
	d.AddTask(run)
	d.AddTask(heldB)

	results := d.ProcessAll()
	if len(results) != 1 || results[0].TaskID != run.ID {
		t.Fatalf("results = %+v, want only the admitted task", results)
	}
	if d.PendingCount() != 2 {
		t.Fatalf("pending = %d, want 2 retained", d.PendingCount())
	}
	if heldA.Status != models.TaskPending || heldB.Status != models.TaskPending {
		t.Fatal("retained tasks must stay pending, not rejected")
	}

	// Held tasks keep their relative order on the next round.
	d2 := New("ops2", "Operations",
		WithHandler(staticHandler{status: models.ResultCompleted}))
	d2.pending = d.pending
	next := d2.ProcessAll()
	if next[0].TaskID != heldA.ID || next[1].TaskID != heldB.ID {
		t.Fatal("retained tasks processed out of order")
	}
}

func TestProcessAllSelfChainedTaskRunsNextRound(t *testing.T) {
	h := &chainHandler{}
	d := New("desk", "Desk", WithHandler(h))

	d.AddTask(models.NewTask("seed", nil))
	first := d.ProcessAll()
	if len(first) != 1 {
		t.Fatalf("first round results = %d, want 1", len(first))
	}
	if d.PendingCount() != 1 {
		t.Fatalf("pending after first round = %d, want the chained task", d.PendingCount())
	}

	second := d.ProcessAll()
	if len(second) != 1 {
		t.Fatalf("second round results = %d, want 1", len(second))
	}
}

func TestProcessAllRejectedStatus(t *testing.T) {
	d := New("ops", "Operations", WithHandler(staticHandler{status: models.ResultRejected}))

	task := models.NewTask("t", nil)
	d.AddTask(task)
	d.ProcessAll()

	if task.Status != models.TaskRejected {
		t.Fatalf("task status = %s, want rejected", task.Status)
	}
}

func TestDefaultResultWithoutHandler(t *testing.T) {
	d := New("ops", "Operations Division")

	d.AddTask(models.NewTask("anything", nil))
	results := d.ProcessAll()
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Status != models.ResultCompleted {
		t.Fatalf("status = %s, want completed", results[0].Status)
	}
	if results[0].Message != "Operations Division has processed the request." {
		t.Fatalf("message = %q", results[0].Message)
	}
}

func TestUpdatePerformanceIgnoresUnknownKeys(t *testing.T) {
	d := New("ops", "Operations")
	d.UpdatePerformance(map[string]float64{
		"revenue":    150,
		"reputation": 99,
	})

	if d.Performance["revenue"] != 150 {
		t.Fatalf("revenue = %v, want 150", d.Performance["revenue"])
	}
	if _, ok := d.Performance["reputation"]; ok {
		t.Fatal("unknown metric must not be created")
	}
	if d.Performance["compliance_score"] != 1 {
		t.Fatalf("compliance_score = %v, want seeded 1", d.Performance["compliance_score"])
	}
}

func TestDecideUnimplementedPolicy(t *testing.T) {
	d := New("ops", "Operations")

	if _, err := d.Decide("expand?", []string{"yes", "no"}); err == nil {
		t.Fatal("expected ErrDecisionNotImplemented from the default policy")
	}
	if len(d.DecisionLog) != 0 {
		t.Fatal("failed decision must not be logged")
	}
}

func TestCoordinatorHandlerMediation(t *testing.T) {
	d := New(consts.Executive, "Executive Committee", WithHandler(CoordinatorHandler{}))

	task := models.NewTask(consts.TaskConflictResolution, map[string]any{
		"issue": "budget allocation",
		"viewpoints": map[string]models.Viewpoint{
			consts.SalesTrading:   {Division: consts.SalesTrading},
			consts.RiskCompliance: {Division: consts.RiskCompliance},
		},
	})
	d.AddTask(task)

	results := d.ProcessAll()
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Status != models.ResultCompleted {
		t.Fatalf("status = %s", results[0].Status)
	}
	if results[0].Message == "" {
		t.Fatal("mediation must produce a decision text")
	}
}

func TestRegistryRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		if err := r.Register(New(id, id)); err != nil {
			t.Fatalf("Register(%s): %v", id, err)
		}
	}

	ids := r.IDs()
	want := []string{"c", "a", "b"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}

	if err := r.Register(New("a", "dup")); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if _, err := r.Get("missing"); err == nil {
		t.Fatal("unknown division lookup must fail")
	}
}
