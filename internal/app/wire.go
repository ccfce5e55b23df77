package app

import (
	"fmt"

	"go.uber.org/zap"

	"tokenvault/internal/domain"
	vaultsvc "tokenvault/internal/services/vault"
	"tokenvault/internal/store"
)

// Wire bundles the store, the vault service and the logger for the CLI.
// Build one per process and hand it to whoever needs secrets.
type Wire struct {
	Store *store.FileStore
	Vault *vaultsvc.Service
	Log   *zap.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("app: settings required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// File-based store
	fs := store.NewFileStore(
		cfg.Settings.Store.Path,
		store.WithLogger(log.Named("store")),
		store.WithLockTimeout(cfg.Settings.Lock.Timeout),
	)

	// High-level service
	opts := []vaultsvc.Option{
		vaultsvc.WithLogger(log.Named("vault")),
		vaultsvc.WithKDF(domain.KDFAlgorithm(cfg.Settings.KDF.Algorithm), cfg.Settings.KDF.Iterations),
	}
	if cfg.Prompter != nil {
		opts = append(opts, vaultsvc.WithPrompter(cfg.Prompter))
	}
	v, err := vaultsvc.New(fs, cfg.Passphrase, opts...)
	if err != nil {
		return nil, err
	}

	return &Wire{Store: fs, Vault: v, Log: log}, nil
}
