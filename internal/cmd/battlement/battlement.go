// Package battlement parses the service command flags and starts the duel runtime.
package battlement

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel/service"
	entrypoint "github.com/Crown-Of-Wealth/Battlement-Game/internal/platform/cmd"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/server"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage/bbolt"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage/memory"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage/sqlite"
)

// Storage driver names accepted by the -storage-driver flag.
const (
	DriverMemory = "memory"
	DriverBbolt  = "bbolt"
	DriverSQLite = "sqlite"
)

// Config holds battlement command configuration.
type Config struct {
	Port int    `env:"BATTLEMENT_PORT" envDefault:"8080"`
	Addr string `env:"BATTLEMENT_ADDR"`
	// StorageDriver selects the duel store backend: memory, bbolt, or sqlite.
	StorageDriver string `env:"BATTLEMENT_STORAGE_DRIVER" envDefault:"memory"`
	// StoragePath is the database file for the bbolt and sqlite drivers.
	StoragePath string `env:"BATTLEMENT_STORAGE_PATH"`
	// TurnTimeoutBlocks enables the per-move turn window; zero disables it.
	TurnTimeoutBlocks uint64 `env:"BATTLEMENT_TURN_TIMEOUT_BLOCKS" envDefault:"0"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The duel server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The duel server listen address (overrides -port)")
	fs.StringVar(&cfg.StorageDriver, "storage-driver", cfg.StorageDriver, "Duel store backend: memory, bbolt, or sqlite")
	fs.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "Database file for the bbolt and sqlite drivers")
	fs.Uint64Var(&cfg.TurnTimeoutBlocks, "turn-timeout-blocks", cfg.TurnTimeoutBlocks, "Per-move turn window in blocks (0 disables)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the duel API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBattlement, func(context.Context) error {
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = closeStore()
		}()

		var opts []service.Option
		if cfg.TurnTimeoutBlocks > 0 {
			opts = append(opts, service.WithTurnTimeout(cfg.TurnTimeoutBlocks))
		}
		duels := service.New(store, opts...)

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		return server.New(addr, duels, server.UnixHeight{}).ListenAndServe(ctx)
	})
}

// openStore builds the configured duel store and a close function.
func openStore(cfg Config) (storage.DuelStore, func() error, error) {
	noClose := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.StorageDriver)) {
	case "", DriverMemory:
		return memory.New(), noClose, nil
	case DriverBbolt:
		store, err := bbolt.Open(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open bbolt store: %w", err)
		}
		return store, store.Close, nil
	case DriverSQLite:
		store, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
