package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_id.go github.com/KirkDiggler/sealedroll/internal/common/id Generator

// RollIDLength is the length of a roll id. Ids are URL safe.
const RollIDLength = 10

// Generator hands out identifiers for rolls and the events they emit
type Generator interface {
	NewRollID() (string, error)
	NewEventID() string
}

// DefaultGenerator uses nanoid for roll ids and random UUIDs for events
type DefaultGenerator struct{}

func New() *DefaultGenerator {
	return &DefaultGenerator{}
}

// NewRollID returns a short random id drawn from the URL-safe nanoid alphabet
func (g *DefaultGenerator) NewRollID() (string, error) {
	rollID, err := gonanoid.New(RollIDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate roll id: %w", err)
	}
	return rollID, nil
}

// NewEventID returns a new UUID
func (g *DefaultGenerator) NewEventID() string {
	return uuid.New().String()
}
