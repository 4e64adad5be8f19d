// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memrepo

import (
	"log/slog"

	"github.com/poiesic/memrepo/config"
	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/ingestion"
	"github.com/poiesic/memrepo/storage"
	"github.com/poiesic/memrepo/storage/badger"
	"github.com/poiesic/memrepo/storage/memory"
)

// Database bundles an item store with the settings used to load it.
type Database struct {
	backend *badger.Backend
	store   storage.Store[core.Item, core.ID]
	cfg     *config.Config
	logger  *slog.Logger
}

// NewDatabase opens the store selected by cfg. A nil cfg uses config.DefaultConfig.
func NewDatabase(cfg *config.Config) (*Database, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db := &Database{
		cfg:    cfg,
		logger: slog.Default(),
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		db.store = memory.NewItemStore()
	case config.BackendBadger:
		backend, err := badger.OpenBackend(cfg.Storage.Path, cfg.Storage.InMemory)
		if err != nil {
			return nil, err
		}
		repo, err := badger.NewItemRepository(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		db.backend = backend
		db.store = repo
	default:
		return nil, storage.ErrUnknownBackend
	}

	db.logger.Debug("database opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "in_memory", cfg.Storage.InMemory)
	return db, nil
}

func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing store", "err", err)
		return err
	}

	if db.backend != nil {
		if err := db.backend.Close(); err != nil {
			db.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

func (db *Database) Store() storage.Store[core.Item, core.ID] {
	return db.store
}

// NewLoader creates an ingestion loader using the configured pool size and
// retry policy. opts are applied after the configured values.
func (db *Database) NewLoader(opts ...ingestion.Option) (*ingestion.Loader, error) {
	base := []ingestion.Option{
		ingestion.WithRetry(db.cfg.Ingestion.MaxRetries, db.cfg.Ingestion.RetryDelay),
		ingestion.WithLogger(db.logger),
	}
	if db.cfg.Ingestion.PoolSize > 0 {
		base = append(base, ingestion.WithPoolSize(db.cfg.Ingestion.PoolSize))
	}
	return ingestion.NewLoader(db.store, append(base, opts...)...)
}
