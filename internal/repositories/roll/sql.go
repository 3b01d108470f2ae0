package roll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/sealedroll/internal/common/clock"
	"github.com/KirkDiggler/sealedroll/internal/models"
	"github.com/jmoiron/sqlx"
)

const schema = `CREATE TABLE IF NOT EXISTS rolls (
	roll_key   TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	revealed   INTEGER NOT NULL DEFAULT 0,
	expires_at BIGINT NOT NULL
)`

const (
	upsertRollQuery = `INSERT INTO rolls (roll_key, value, revealed, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (roll_key) DO UPDATE
		SET value = excluded.value, revealed = excluded.revealed, expires_at = excluded.expires_at`

	// insertRollQuery only replaces a row whose expiry has passed
	insertRollQuery = `INSERT INTO rolls (roll_key, value, revealed, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (roll_key) DO UPDATE
		SET value = excluded.value, revealed = excluded.revealed, expires_at = excluded.expires_at
		WHERE rolls.expires_at <= ?`

	selectRollQuery = `SELECT value, revealed FROM rolls WHERE roll_key = ? AND expires_at > ?`

	revealRollQuery = `UPDATE rolls SET value = ?, revealed = 1, expires_at = ?
		WHERE roll_key = ? AND revealed = 0 AND expires_at > ?`
)

// SQLConfig holds configuration for the SQL roll repository
type SQLConfig struct {
	// DB is an open sqlite or postgres handle
	DB *sqlx.DB

	// Optional clock, defaults to the system clock
	Clock clock.Clock
}

type rollRow struct {
	Value    string `db:"value"`
	Revealed int    `db:"revealed"`
}

// sqlRepository stores rolls in a single table. Expiry is a unix
// millisecond column compared against the clock on every statement.
type sqlRepository struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewSQL creates a SQL-backed roll repository and ensures its table exists
func NewSQL(cfg *SQLConfig) (*sqlRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DB == nil {
		return nil, errors.New("db cannot be nil")
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	if _, err := cfg.DB.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create rolls table: %w", err)
	}

	return &sqlRepository{
		db:    cfg.DB,
		clock: c,
	}, nil
}

// SaveRoll upserts the roll with a fresh expiry
func (r *sqlRepository) SaveRoll(ctx context.Context, input *SaveRollInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	rollJSON, err := json.Marshal(input.Roll)
	if err != nil {
		return fmt.Errorf("failed to marshal roll: %w", err)
	}

	revealed := 0
	if input.Roll.IsRevealed {
		revealed = 1
	}
	now := r.clock.Now()
	expiresAt := now.Add(input.TTL).UnixMilli()

	if !input.IfAbsent {
		_, err = r.db.ExecContext(ctx, r.db.Rebind(upsertRollQuery),
			Key(input.Roll.ID), string(rollJSON), revealed, expiresAt)
		if err != nil {
			return fmt.Errorf("failed to save roll: %w", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(insertRollQuery),
		Key(input.Roll.ID), string(rollJSON), revealed, expiresAt, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save roll: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save roll: %w", err)
	}
	if rows == 0 {
		return ErrRollExists
	}

	return nil
}

// GetRoll retrieves a roll that has not expired
func (r *sqlRepository) GetRoll(ctx context.Context, input *GetRollInput) (*models.Roll, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	row, err := r.selectLive(ctx, Key(input.RollID))
	if err != nil {
		return nil, err
	}

	var roll models.Roll
	if err := json.Unmarshal([]byte(row.Value), &roll); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roll: %w", err)
	}

	return &roll, nil
}

// RevealRoll updates the row only while it is still sealed
func (r *sqlRepository) RevealRoll(ctx context.Context, input *RevealRollInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	rollJSON, err := json.Marshal(input.Roll)
	if err != nil {
		return fmt.Errorf("failed to marshal roll: %w", err)
	}

	now := r.clock.Now()
	key := Key(input.Roll.ID)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(revealRollQuery),
		string(rollJSON), now.Add(input.TTL).UnixMilli(), key, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to reveal roll: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to reveal roll: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Nothing updated: the row is gone, expired or already revealed
	if _, err := r.selectLive(ctx, key); err != nil {
		return err
	}
	return ErrRollAlreadyRevealed
}

func (r *sqlRepository) selectLive(ctx context.Context, key string) (*rollRow, error) {
	var row rollRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectRollQuery), key, r.clock.Now().UnixMilli())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRollNotFound
		}
		return nil, fmt.Errorf("failed to get roll: %w", err)
	}
	return &row, nil
}
