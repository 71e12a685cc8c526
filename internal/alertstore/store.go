// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package alertstore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/logging"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("alert store is closed")

// Key layout. Timestamps are zero-padded so lexical order is time order.
const (
	prefixEntity = "alert:"
	prefixTime   = "time:"
	tsFormat     = "%020d"
)

// Config configures the alert store.
type Config struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool

	// Retention is how long an alert is kept before badger expires it.
	Retention time.Duration

	SyncWrites bool

	// GCInterval is how often value log GC runs; GCRatio is the discard ratio.
	GCInterval time.Duration
	GCRatio    float64

	CloseTimeout time.Duration
}

// DefaultConfig returns a 30-day retention store at ./data/alerts.
func DefaultConfig() Config {
	return Config{
		Path:         "./data/alerts",
		Retention:    30 * 24 * time.Hour,
		GCInterval:   10 * time.Minute,
		GCRatio:      0.5,
		CloseTimeout: 30 * time.Second,
	}
}

// Store persists alert history in BadgerDB.
//
// Each alert is written twice in one transaction: under its entity prefix
// for per-entity history, and under a global time prefix for the recent
// feed. Both entries carry the retention TTL.
type Store struct {
	db     *badger.DB
	config Config

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the alert store.
func Open(cfg Config) (*Store, error) {
	def := DefaultConfig()
	if cfg.Retention <= 0 {
		cfg.Retention = def.Retention
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = def.GCInterval
	}
	if cfg.GCRatio <= 0 || cfg.GCRatio >= 1 {
		cfg.GCRatio = def.GCRatio
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = def.CloseTimeout
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("alert store path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("retention", cfg.Retention).
		Msg("alert store opened")
	return &Store{db: db, config: cfg}, nil
}

func entityKey(a detection.Alert) []byte {
	return fmt.Appendf(nil, "%s%s:"+tsFormat+":%s", prefixEntity, a.Entity, a.CreatedAt.UnixNano(), a.ID)
}

func timeKey(a detection.Alert) []byte {
	return fmt.Appendf(nil, "%s"+tsFormat+":%s", prefixTime, a.CreatedAt.UnixNano(), a.ID)
}

// Save persists one alert.
func (s *Store) Save(a detection.Alert) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(badger.NewEntry(entityKey(a), data).WithTTL(s.config.Retention)); err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(timeKey(a), data).WithTTL(s.config.Retention))
	})
	if err != nil {
		return fmt.Errorf("write alert: %w", err)
	}
	return nil
}

// List returns up to limit alerts for one entity, newest first.
func (s *Store) List(entity detection.EntityID, limit int) ([]detection.Alert, error) {
	return s.scan(prefixEntity+string(entity)+":", limit)
}

// Recent returns up to limit alerts across all entities, newest first.
func (s *Store) Recent(limit int) ([]detection.Alert, error) {
	return s.scan(prefixTime, limit)
}

func (s *Store) scan(prefix string, limit int) ([]detection.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 50
	}

	alerts := make([]detection.Alert, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Seeking past the last possible key positions a reverse iterator
		// on the newest entry under the prefix.
		seek := append([]byte(prefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix) && len(alerts) < limit; it.Next() {
			item := it.Item()
			var a detection.Alert
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("skipping unreadable alert")
				continue
			}
			alerts = append(alerts, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

// Close shuts the store down, giving up after CloseTimeout.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("alert store closed")
		return nil
	case <-time.After(s.config.CloseTimeout):
		return fmt.Errorf("badgerdb close timeout after %v", s.config.CloseTimeout)
	}
}
