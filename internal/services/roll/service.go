package roll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/KirkDiggler/sealedroll/internal/commit"
	"github.com/KirkDiggler/sealedroll/internal/common/clock"
	"github.com/KirkDiggler/sealedroll/internal/common/id"
	"github.com/KirkDiggler/sealedroll/internal/dice"
	"github.com/KirkDiggler/sealedroll/internal/events"
	"github.com/KirkDiggler/sealedroll/internal/models"
	rollRepo "github.com/KirkDiggler/sealedroll/internal/repositories/roll"
)

// service implements the Service interface
type service struct {
	repo         rollRepo.Repository
	roller       dice.Roller
	clock        clock.Clock
	idGenerator  id.Generator
	publisher    events.Publisher
	discloseSalt bool
}

// New creates a new roll service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	if cfg.Roller == nil {
		return nil, ErrNilRoller
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.IDGenerator == nil {
		return nil, ErrNilIDGenerator
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.Noop{}
	}

	return &service{
		repo:         cfg.Repository,
		roller:       cfg.Roller,
		clock:        cfg.Clock,
		idGenerator:  cfg.IDGenerator,
		publisher:    publisher,
		discloseSalt: cfg.DiscloseSalt,
	}, nil
}

// CreateRoll seals a new roll. Nothing is generated or stored when the
// configuration is invalid.
func (s *service) CreateRoll(ctx context.Context, input *CreateRollInput) (*CreateRollOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidConfiguration)
	}

	if utf8.RuneCountInString(input.Label) > models.MaxLabelLength {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, ErrLabelTooLong)
	}

	if err := dice.Validate(input.NumDice, input.NumSides, input.WithReplacement); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	results, err := s.roller.Generate(input.NumDice, input.NumSides, input.WithReplacement)
	if err != nil {
		var cfgErr dice.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		return nil, fmt.Errorf("failed to generate results: %w", err)
	}

	salt, err := commit.NewSalt()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	roll := &models.Roll{
		NumDice:         input.NumDice,
		NumSides:        input.NumSides,
		Label:           input.Label,
		Results:         results,
		Salt:            salt,
		ResultsHash:     commit.Hash(results, salt),
		ShowSum:         input.ShowSum,
		WithReplacement: input.WithReplacement,
		CreatedAt:       now,
		ExpiresAt:       now.Add(SealedTTL),
	}

	if err := s.save(ctx, roll); err != nil {
		return nil, err
	}

	view := roll.View(false)
	s.publish(ctx, events.TypeRollCreated, view)

	return &CreateRollOutput{
		Roll: view,
	}, nil
}

// RevealRoll reveals a sealed roll and shortens its remaining lifetime
func (s *service) RevealRoll(ctx context.Context, input *RevealRollInput) (*RevealRollOutput, error) {
	if input == nil || input.RollID == "" {
		return nil, ErrEmptyRollID
	}

	roll, err := s.getRoll(ctx, input.RollID)
	if err != nil {
		return nil, err
	}

	if roll.IsRevealed {
		return nil, ErrAlreadyRevealed
	}

	now := s.clock.Now()
	roll.IsRevealed = true
	roll.RevealedAt = &now
	roll.ExpiresAt = now.Add(RevealedTTL)

	err = s.repo.RevealRoll(ctx, &rollRepo.RevealRollInput{
		Roll: roll,
		TTL:  RevealedTTL,
	})
	if err != nil {
		switch {
		case errors.Is(err, rollRepo.ErrRollAlreadyRevealed):
			// Another caller won the reveal between our read and write
			return nil, ErrAlreadyRevealed
		case errors.Is(err, rollRepo.ErrRollNotFound):
			return nil, ErrRollNotFound
		}
		log.Printf("[roll] failed to reveal roll %s: %v", input.RollID, err)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	view := roll.View(s.discloseSalt)
	s.publish(ctx, events.TypeRollRevealed, view)

	return &RevealRollOutput{
		Roll: view,
	}, nil
}

// GetRoll returns the sealed or revealed view of a roll
func (s *service) GetRoll(ctx context.Context, input *GetRollInput) (*GetRollOutput, error) {
	if input == nil || input.RollID == "" {
		return nil, ErrEmptyRollID
	}

	roll, err := s.getRoll(ctx, input.RollID)
	if err != nil {
		return nil, err
	}

	return &GetRollOutput{
		Roll: roll.View(s.discloseSalt),
	}, nil
}

// save stores a new sealed roll under a fresh id, drawing another id if the
// first one is already taken by a live roll
func (s *service) save(ctx context.Context, roll *models.Roll) error {
	for attempt := 1; ; attempt++ {
		rollID, err := s.idGenerator.NewRollID()
		if err != nil {
			return err
		}
		roll.ID = rollID

		err = s.repo.SaveRoll(ctx, &rollRepo.SaveRollInput{
			Roll:     roll,
			TTL:      SealedTTL,
			IfAbsent: true,
		})
		if err == nil {
			return nil
		}

		if errors.Is(err, rollRepo.ErrRollExists) && attempt < maxIDAttempts {
			log.Printf("[roll] roll id %s is taken, drawing another", rollID)
			continue
		}

		log.Printf("[roll] failed to save roll %s: %v", rollID, err)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

func (s *service) getRoll(ctx context.Context, rollID string) (*models.Roll, error) {
	roll, err := s.repo.GetRoll(ctx, &rollRepo.GetRollInput{
		RollID: rollID,
	})
	if err != nil {
		if errors.Is(err, rollRepo.ErrRollNotFound) {
			return nil, ErrRollNotFound
		}
		log.Printf("[roll] failed to get roll %s: %v", rollID, err)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return roll, nil
}

// publish reports a lifecycle change. Failures are logged and dropped.
func (s *service) publish(ctx context.Context, eventType events.Type, view *models.RollView) {
	err := s.publisher.Publish(ctx, &events.Event{
		ID:         s.idGenerator.NewEventID(),
		Type:       eventType,
		OccurredAt: s.clock.Now(),
		Roll:       view,
	})
	if err != nil {
		log.Printf("[roll] failed to publish %s for roll %s: %v", eventType, view.ID, err)
	}
}
