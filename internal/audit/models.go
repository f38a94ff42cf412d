// Package audit captures an append-only trail of security and domain events:
// who registered, who logged in, who asked for a recommendation and from
// which device.
package audit

import (
	"time"

	"github.com/google/uuid"

	id "covera/pkg/domain"
)

// Actions recorded today.
const (
	ActionUserRegistered        = "user.registered"
	ActionUserLogin             = "user.login"
	ActionRecommendationCreated = "recommendation.computed"
)

// Event is a single audit entry. Metadata stays flat string-to-string so
// every sink (Postgres JSONB, Kafka JSON) serializes it identically.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	UserID    id.UserID         `json:"-"`
	Action    string            `json:"action"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp time.Time         `json:"timestamp"`
}

// wireEvent is the JSON form published to Kafka (typed IDs as strings).
type wireEvent struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Action    string            `json:"action"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp time.Time         `json:"timestamp"`
}

func (e Event) wire() wireEvent {
	return wireEvent{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Action:    e.Action,
		Metadata:  e.Metadata,
		Timestamp: e.Timestamp,
	}
}
