package roll

import (
	"time"

	"github.com/KirkDiggler/sealedroll/internal/common/clock"
	"github.com/KirkDiggler/sealedroll/internal/common/id"
	"github.com/KirkDiggler/sealedroll/internal/dice"
	"github.com/KirkDiggler/sealedroll/internal/events"
	"github.com/KirkDiggler/sealedroll/internal/models"
	rollRepo "github.com/KirkDiggler/sealedroll/internal/repositories/roll"
)

const (
	// SealedTTL is how long a roll lives before it is revealed
	SealedTTL = 14 * 24 * time.Hour

	// RevealedTTL is how long a roll lives after its reveal
	RevealedTTL = 7 * 24 * time.Hour

	// maxIDAttempts is how many ids CreateRoll draws before giving up on a collision
	maxIDAttempts = 3
)

// Config holds configuration for the roll service
type Config struct {
	// Repository dependencies
	Repository rollRepo.Repository

	// Service dependencies
	Roller      dice.Roller
	Clock       clock.Clock
	IDGenerator id.Generator

	// Optional, defaults to events.Noop
	Publisher events.Publisher

	// DiscloseSalt adds the salt to revealed views so readers can verify the hash
	DiscloseSalt bool
}

// CreateRollInput contains the parameters for sealing a new roll
type CreateRollInput struct {
	NumDice         int
	NumSides        int
	Label           string
	ShowSum         bool
	WithReplacement bool
}

// CreateRollOutput contains the sealed view of the new roll
type CreateRollOutput struct {
	Roll *models.RollView
}

// RevealRollInput identifies the roll to reveal
type RevealRollInput struct {
	RollID string
}

// RevealRollOutput contains the revealed view
type RevealRollOutput struct {
	Roll *models.RollView
}

// GetRollInput identifies the roll to read
type GetRollInput struct {
	RollID string
}

// GetRollOutput contains the sealed or revealed view
type GetRollOutput struct {
	Roll *models.RollView
}
