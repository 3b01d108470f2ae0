package roll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/sealedroll/internal/common/clock"
	"github.com/KirkDiggler/sealedroll/internal/models"
)

// MemoryConfig holds configuration for the in-process roll repository
type MemoryConfig struct {
	// Optional clock, defaults to the system clock
	Clock clock.Clock
}

// sweepInterval bounds how often a save scans for expired entries
const sweepInterval = time.Minute

type memoryEntry struct {
	data      []byte
	revealed  bool
	expiresAt time.Time
}

// memoryRepository keeps serialized rolls in a map for single-instance
// deployments. Entries are lost on restart. Expired entries are dropped
// when they are next touched, and saves sweep the whole map at most once
// per sweepInterval so rolls nobody reads again are still released.
type memoryRepository struct {
	mu        sync.Mutex
	clock     clock.Clock
	entries   map[string]memoryEntry
	nextSweep time.Time
}

// NewMemory creates a new in-process roll repository
func NewMemory(cfg *MemoryConfig) (*memoryRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &memoryRepository{
		clock:   c,
		entries: make(map[string]memoryEntry),
	}, nil
}

// SaveRoll stores a copy of the roll with the given TTL
func (r *memoryRepository) SaveRoll(ctx context.Context, input *SaveRollInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	data, err := json.Marshal(input.Roll)
	if err != nil {
		return fmt.Errorf("failed to marshal roll: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if !now.Before(r.nextSweep) {
		r.sweep(now)
		r.nextSweep = now.Add(sweepInterval)
	}

	key := Key(input.Roll.ID)
	if input.IfAbsent {
		if _, ok := r.live(key); ok {
			return ErrRollExists
		}
	}

	r.entries[key] = memoryEntry{
		data:      data,
		revealed:  input.Roll.IsRevealed,
		expiresAt: now.Add(input.TTL),
	}

	return nil
}

// GetRoll returns a fresh copy of a live roll
func (r *memoryRepository) GetRoll(ctx context.Context, input *GetRollInput) (*models.Roll, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	entry, ok := r.live(Key(input.RollID))
	r.mu.Unlock()
	if !ok {
		return nil, ErrRollNotFound
	}

	var roll models.Roll
	if err := json.Unmarshal(entry.data, &roll); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roll: %w", err)
	}

	return &roll, nil
}

// RevealRoll swaps in the revealed roll if the stored one is still sealed
func (r *memoryRepository) RevealRoll(ctx context.Context, input *RevealRollInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	data, err := json.Marshal(input.Roll)
	if err != nil {
		return fmt.Errorf("failed to marshal roll: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(input.Roll.ID)
	entry, ok := r.live(key)
	if !ok {
		return ErrRollNotFound
	}
	if entry.revealed {
		return ErrRollAlreadyRevealed
	}

	r.entries[key] = memoryEntry{
		data:      data,
		revealed:  true,
		expiresAt: r.clock.Now().Add(input.TTL),
	}

	return nil
}

// live returns the entry under key unless it has expired. Expired entries
// are deleted. Callers must hold r.mu.
func (r *memoryRepository) live(key string) (memoryEntry, bool) {
	entry, ok := r.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !r.clock.Now().Before(entry.expiresAt) {
		delete(r.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

// sweep deletes every expired entry. Callers must hold r.mu.
func (r *memoryRepository) sweep(now time.Time) {
	for key, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, key)
		}
	}
}
