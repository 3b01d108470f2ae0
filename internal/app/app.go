// Package app assembles the roll service from configuration. Both the HTTP
// server and the Discord bot start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KirkDiggler/sealedroll/internal/common/clock"
	"github.com/KirkDiggler/sealedroll/internal/common/id"
	"github.com/KirkDiggler/sealedroll/internal/config"
	"github.com/KirkDiggler/sealedroll/internal/dice"
	"github.com/KirkDiggler/sealedroll/internal/events"
	rollRepo "github.com/KirkDiggler/sealedroll/internal/repositories/roll"
	rollService "github.com/KirkDiggler/sealedroll/internal/services/roll"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const connectTimeout = 5 * time.Second

// App holds the assembled service and the connections behind it
type App struct {
	RollService rollService.Service

	// Redis is set when the redis backend is active
	Redis *redis.Client

	closers []func() error
}

// New connects the configured backend and builds the roll service
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	a := &App{}
	clk := &clock.DefaultClock{}

	repo, err := a.repository(ctx, cfg, clk)
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := a.publisher(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	svc, err := rollService.New(&rollService.Config{
		Repository:   repo,
		Roller:       dice.New(&dice.Config{}),
		Clock:        clk,
		IDGenerator:  id.New(),
		Publisher:    publisher,
		DiscloseSalt: cfg.RevealSalt,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create roll service: %w", err)
	}
	a.RollService = svc

	return a, nil
}

func (a *App) repository(ctx context.Context, cfg *config.Config, clk clock.Clock) (rollRepo.Repository, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)

		// NewRedis checks the connection
		repo, err := rollRepo.NewRedis(&rollRepo.Config{RedisClient: client})
		if err != nil {
			return nil, err
		}
		a.Redis = client
		log.Printf("[redis] using roll store at %s", cfg.Redis.Addr)
		return repo, nil

	case config.BackendSQL:
		db, err := sqlx.Open(cfg.SQL.Driver, cfg.SQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", cfg.SQL.Driver, err)
		}
		a.closers = append(a.closers, db.Close)

		if cfg.SQL.Driver == config.DriverSQLite {
			// sqlite allows one writer at a time
			db.SetMaxOpenConns(1)
		}

		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.SQL.Driver, err)
		}

		repo, err := rollRepo.NewSQL(&rollRepo.SQLConfig{DB: db, Clock: clk})
		if err != nil {
			return nil, err
		}
		log.Printf("[sql] using %s roll store", cfg.SQL.Driver)
		return repo, nil

	default:
		log.Println("[roll] using in-memory roll store, rolls are lost on restart")
		return rollRepo.NewMemory(&rollRepo.MemoryConfig{Clock: clk})
	}
}

func (a *App) publisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQP.URL == "" {
		return events.Noop{}, nil
	}

	p, err := events.NewAMQP(&events.AMQPConfig{
		URL:      cfg.AMQP.URL,
		Exchange: cfg.AMQP.Exchange,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, p.Close)
	return p, nil
}

// Close releases connections in reverse order of creation
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}
	a.closers = nil
}
