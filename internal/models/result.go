package models

import "github.com/shopspring/decimal"

// Result is what a division produces for a single task.
type Result struct {
	TaskID   string         `json:"task_id"`
	Division string         `json:"division"`
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
	Action   *Action        `json:"action,omitempty"`
}

const (
	ResultCompleted       = "completed"
	ResultRejected        = "rejected"
	ResultPendingApproval = "pending_risk_approval"
)

// Action is a request from a division to the market-execution gateway.
type Action struct {
	Type     string          `json:"type"`
	Order    *Order          `json:"order,omitempty"`
	OrderID  string          `json:"order_id,omitempty"`
	Symbol   string          `json:"symbol,omitempty"`
	Bid      decimal.Decimal `json:"bid,omitempty"`
	Ask      decimal.Decimal `json:"ask,omitempty"`
	Quantity int64           `json:"quantity,omitempty"`
}

// ActionResult is the gateway outcome for one Action. Gateway failures
// are reported here as a failed-action result, never as a crash.
type ActionResult struct {
	Status string         `json:"status"`
	Cause  string         `json:"cause,omitempty"`
	Detail map[string]any `json:"detail,omitempty"`
}

const (
	ActionSuccess = "success"
	ActionFailed  = "failed"
)
