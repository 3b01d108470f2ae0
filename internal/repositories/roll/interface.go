package roll

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/sealedroll/internal/repositories/roll Repository

import (
	"context"
	"errors"

	"github.com/KirkDiggler/sealedroll/internal/models"
)

var (
	// ErrRollNotFound is returned when a roll is absent or its TTL has elapsed
	ErrRollNotFound = errors.New("roll not found")

	// ErrRollAlreadyRevealed is returned when a reveal finds the stored roll already revealed
	ErrRollAlreadyRevealed = errors.New("roll already revealed")

	// ErrRollExists is returned when an IfAbsent save finds a live roll under the key
	ErrRollExists = errors.New("roll already exists")
)

// Repository is an expiring store of roll records keyed by "roll:{id}".
// Every write replaces the whole record and its TTL.
type Repository interface {
	// SaveRoll stores a roll, replacing any existing value and TTL. With
	// IfAbsent set it fails with ErrRollExists instead of replacing a live roll.
	SaveRoll(ctx context.Context, input *SaveRollInput) error

	// GetRoll retrieves a roll that has not expired
	GetRoll(ctx context.Context, input *GetRollInput) (*models.Roll, error)

	// RevealRoll atomically replaces a stored sealed roll and its TTL.
	// It fails with ErrRollAlreadyRevealed when the stored roll is already
	// revealed, so concurrent reveals have exactly one winner.
	RevealRoll(ctx context.Context, input *RevealRollInput) error
}
