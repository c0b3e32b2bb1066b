package models

import (
	"time"

	"github.com/google/uuid"
)

type DealStatus string

const (
	DealInProgress DealStatus = "in_progress"
	DealCompleted  DealStatus = "completed"
	DealWithdrawn  DealStatus = "withdrawn"
	DealFailed     DealStatus = "failed"
)

// Deal is a long-lived advisory engagement tracked by the investment
// banking division: an IPO, a bond issuance, an M&A mandate or a
// financing mandate.
type Deal struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Client       string         `json:"client"`
	Counterparty string         `json:"counterparty,omitempty"`
	Status       DealStatus     `json:"status"`
	Details      map[string]any `json:"details,omitempty"`
	NextSteps    []string       `json:"next_steps,omitempty"`
	Timeline     string         `json:"estimated_timeline,omitempty"`
	Results      map[string]any `json:"results,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

func NewDeal(dealType, client string, details map[string]any) *Deal {
	return &Deal{
		ID:        uuid.New().String(),
		Type:      dealType,
		Client:    client,
		Status:    DealInProgress,
		Details:   details,
		CreatedAt: time.Now(),
	}
}
