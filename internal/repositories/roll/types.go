package roll

import (
	"errors"
	"time"

	"github.com/KirkDiggler/sealedroll/internal/models"
)

const keyPrefix = "roll:"

// Key returns the store key of a roll
func Key(rollID string) string {
	return keyPrefix + rollID
}

type SaveRollInput struct {
	Roll *models.Roll
	TTL  time.Duration

	// IfAbsent refuses to replace a roll that has not expired
	IfAbsent bool
}

type GetRollInput struct {
	RollID string
}

type RevealRollInput struct {
	// Roll is the revealed record to store
	Roll *models.Roll
	TTL  time.Duration
}

func (i *SaveRollInput) validate() error {
	if i == nil || i.Roll == nil {
		return errors.New("input and roll cannot be nil")
	}
	if i.Roll.ID == "" {
		return errors.New("roll ID cannot be empty")
	}
	if i.TTL <= 0 {
		return errors.New("ttl must be positive")
	}
	return nil
}

func (i *RevealRollInput) validate() error {
	if i == nil || i.Roll == nil {
		return errors.New("input and roll cannot be nil")
	}
	if i.Roll.ID == "" {
		return errors.New("roll ID cannot be empty")
	}
	if !i.Roll.IsRevealed {
		return errors.New("roll must be marked revealed")
	}
	if i.TTL <= 0 {
		return errors.New("ttl must be positive")
	}
	return nil
}

func (i *GetRollInput) validate() error {
	if i == nil || i.RollID == "" {
		return errors.New("input and roll ID cannot be empty")
	}
	return nil
}
