package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand/v2"
	"sync"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/KirkDiggler/sealedroll/internal/dice Roller

const (
	// MinDice is the smallest number of dice in a single roll
	MinDice = 1

	// MaxDice is the largest number of dice in a single roll
	MaxDice = 20
)

// ConfigError reports a dice configuration that cannot be rolled
type ConfigError string

// Error implements the error interface
func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrDiceCount     ConfigError = "numDice must be between 1 and 20"
	ErrDieType       ConfigError = "Invalid die type"
	ErrPoolExhausted ConfigError = "Cannot roll without replacement when number of dice exceeds die sides"
)

// sides lists the supported die types in ascending order
var sides = []int{4, 6, 8, 10, 12, 20, 100}

// Sides returns the supported die types
func Sides() []int {
	out := make([]int, len(sides))
	copy(out, sides)
	return out
}

// IsValidSides reports whether numSides is a supported die type
func IsValidSides(numSides int) bool {
	for _, s := range sides {
		if s == numSides {
			return true
		}
	}
	return false
}

// Validate checks a roll configuration before any randomness is consumed
func Validate(numDice, numSides int, withReplacement bool) error {
	if numDice < MinDice || numDice > MaxDice {
		return ErrDiceCount
	}
	if !IsValidSides(numSides) {
		return ErrDieType
	}
	if !withReplacement && numDice > numSides {
		return ErrPoolExhausted
	}
	return nil
}

// Roller produces the ordered outcomes of a roll
type Roller interface {
	Generate(numDice, numSides int, withReplacement bool) ([]int, error)
}

// Source returns uniform integers in [0, n)
type Source interface {
	IntN(n int) (int, error)
}

// Config for dice roller
type Config struct {
	// Optional seed for testing. Zero means crypto/rand.
	Seed uint64

	// Optional source, takes precedence over Seed
	Source Source
}

// Generator rolls dice from a uniform source
type Generator struct {
	source Source
}

// New creates a new dice roller
func New(cfg *Config) *Generator {
	var source Source = cryptoSource{}
	if cfg != nil {
		switch {
		case cfg.Source != nil:
			source = cfg.Source
		case cfg.Seed != 0:
			source = newSeededSource(cfg.Seed)
		}
	}

	return &Generator{
		source: source,
	}
}

// Generate rolls numDice dice with numSides sides each.
//
// With replacement every die is an independent draw in [1, numSides].
// Without replacement values are drawn from a shrinking pool [1..numSides],
// so results never repeat and every ordered selection is equally likely.
func (g *Generator) Generate(numDice, numSides int, withReplacement bool) ([]int, error) {
	if err := Validate(numDice, numSides, withReplacement); err != nil {
		return nil, err
	}

	results := make([]int, 0, numDice)

	if withReplacement {
		for i := 0; i < numDice; i++ {
			n, err := g.source.IntN(numSides)
			if err != nil {
				return nil, err
			}
			results = append(results, n+1)
		}
		return results, nil
	}

	pool := make([]int, numSides)
	for i := range pool {
		pool[i] = i + 1
	}

	for i := 0; i < numDice; i++ {
		idx, err := g.source.IntN(len(pool))
		if err != nil {
			return nil, err
		}
		results = append(results, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	return results, nil
}

// cryptoSource draws from crypto/rand. rand.Int rejects out-of-range samples,
// so there is no modulo bias.
type cryptoSource struct{}

func (cryptoSource) IntN(n int) (int, error) {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

// seededSource is a deterministic ChaCha8 stream. *rand.Rand is not safe for
// concurrent use, hence the mutex.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSeededSource(seed uint64) *seededSource {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &seededSource{
		rng: rand.New(rand.NewChaCha8(key)),
	}
}

func (s *seededSource) IntN(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n), nil
}
