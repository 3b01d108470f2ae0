// Package events announces roll lifecycle changes to other systems.
package events

//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go github.com/KirkDiggler/sealedroll/internal/events Publisher

import (
	"context"
	"time"

	"github.com/KirkDiggler/sealedroll/internal/models"
)

// Type is the routing key of an event
type Type string

const (
	// TypeRollCreated is sent after a sealed roll is stored. It never carries results.
	TypeRollCreated Type = "roll.created"

	// TypeRollRevealed is sent once, after the reveal that won.
	TypeRollRevealed Type = "roll.revealed"
)

// Event is the message body published for a lifecycle change
type Event struct {
	ID         string           `json:"id"`
	Type       Type             `json:"type"`
	OccurredAt time.Time        `json:"occurredAt"`
	Roll       *models.RollView `json:"roll"`
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

// Publish does nothing
func (Noop) Publish(ctx context.Context, event *Event) error {
	return nil
}
