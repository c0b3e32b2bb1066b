package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus tracks a task through its one-way lifecycle. A task never
// moves back to pending once completed or rejected.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskRejected  TaskStatus = "rejected"
)

// Task is a unit of work queued on a single division.
type Task struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Sender    string         `json:"sender,omitempty"`
	Status    TaskStatus     `json:"status"`
	Override  bool           `json:"override,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewTask(taskType string, payload map[string]any) *Task {
	if payload == nil {
		payload = make(map[string]any)
	}
	return &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Payload:   payload,
		Status:    TaskPending,
		CreatedAt: time.Now(),
	}
}

// CompletedTask pairs a finished task with its result for the completion log.
type CompletedTask struct {
	Task       *Task     `json:"task"`
	Result     *Result   `json:"result"`
	FinishedAt time.Time `json:"finished_at"`
}
