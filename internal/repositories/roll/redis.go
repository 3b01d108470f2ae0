package roll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/sealedroll/internal/models"
	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connection check in NewRedis
const pingTimeout = 5 * time.Second

const (
	replyNotFound        = "NOT_FOUND"
	replyAlreadyRevealed = "ALREADY_REVEALED"
)

// revealScript swaps a sealed roll for its revealed form and resets the TTL
// in one step. KEYS[1] is the roll key, ARGV[1] the revealed JSON and ARGV[2]
// the TTL in milliseconds.
var revealScript = redis.NewScript(`
local data = redis.call("GET", KEYS[1])
if not data then
	return redis.error_reply("NOT_FOUND")
end

local roll = cjson.decode(data)
if roll.isRevealed == true then
	return redis.error_reply("ALREADY_REVEALED")
end

redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return "OK"
`)

// Config holds configuration for the Redis roll repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed roll repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveRoll writes the roll and its TTL with a single SET
func (r *redisRepository) SaveRoll(ctx context.Context, input *SaveRollInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	rollJSON, err := json.Marshal(input.Roll)
	if err != nil {
		return fmt.Errorf("failed to marshal roll: %w", err)
	}

	key := Key(input.Roll.ID)
	if !input.IfAbsent {
		if err := r.client.Set(ctx, key, rollJSON, input.TTL).Err(); err != nil {
			return fmt.Errorf("failed to save roll: %w", err)
		}
		return nil
	}

	ok, err := r.client.SetNX(ctx, key, rollJSON, input.TTL).Result()
	if err != nil {
		return fmt.Errorf("failed to save roll: %w", err)
	}
	if !ok {
		return ErrRollExists
	}

	return nil
}

// GetRoll retrieves a roll by ID
func (r *redisRepository) GetRoll(ctx context.Context, input *GetRollInput) (*models.Roll, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	rollJSON, err := r.client.Get(ctx, Key(input.RollID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRollNotFound
		}
		return nil, fmt.Errorf("failed to get roll: %w", err)
	}

	var roll models.Roll
	if err := json.Unmarshal(rollJSON, &roll); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roll: %w", err)
	}

	return &roll, nil
}

// RevealRoll runs the reveal script so that only one caller wins
func (r *redisRepository) RevealRoll(ctx context.Context, input *RevealRollInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	rollJSON, err := json.Marshal(input.Roll)
	if err != nil {
		return fmt.Errorf("failed to marshal roll: %w", err)
	}

	err = revealScript.Run(ctx, r.client,
		[]string{Key(input.Roll.ID)},
		string(rollJSON), input.TTL.Milliseconds(),
	).Err()
	if err != nil {
		switch {
		case strings.Contains(err.Error(), replyNotFound):
			return ErrRollNotFound
		case strings.Contains(err.Error(), replyAlreadyRevealed):
			return ErrRollAlreadyRevealed
		}
		return fmt.Errorf("failed to reveal roll: %w", err)
	}

	return nil
}
