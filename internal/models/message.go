package models

import "time"

// InternalMessage travels between divisions over the internal network.
// Messages are delivered at the end of a communication round, never
// synchronously.
type InternalMessage struct {
	Sender    string         `json:"sender"`
	Targets   []string       `json:"targets,omitempty"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Viewpoint is a division's structured stance on an issue under
// mediation.
type Viewpoint struct {
	Division       string `json:"division"`
	Perspective    string `json:"perspective"`
	RiskLabel      string `json:"risk_assessment"`
	Opportunity    string `json:"opportunity_assessment"`
	Recommendation string `json:"recommendation"`
}
