package roll

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/sealedroll/internal/services/roll Service

import "context"

// Service owns the sealed roll lifecycle: create sealed, reveal once, read
type Service interface {
	// CreateRoll generates results, commits to them and stores the roll sealed
	CreateRoll(ctx context.Context, input *CreateRollInput) (*CreateRollOutput, error)

	// RevealRoll moves a sealed roll to revealed. Only one caller ever succeeds.
	RevealRoll(ctx context.Context, input *RevealRollInput) (*RevealRollOutput, error)

	// GetRoll returns the current view of a roll
	GetRoll(ctx context.Context, input *GetRollInput) (*GetRollOutput, error)
}
