package models

import "time"

// ActionLog records a mutation or export performed through the console.
type ActionLog struct {
	ID          int       `json:"id" db:"id"`
	RequestID   string    `json:"request_id" db:"request_id"`
	ActionType  string    `json:"action_type" db:"action_type"`
	TargetType  string    `json:"target_type" db:"target_type"`
	TargetID    *int      `json:"target_id,omitempty" db:"target_id"`
	Description string    `json:"description" db:"description"`
	Outcome     string    `json:"outcome" db:"outcome"`
	IPAddress   *string   `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
