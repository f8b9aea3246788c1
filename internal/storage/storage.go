package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
)

// Storage keys
const (
	keyStats    = "stats"
	perftPrefix = "perft/"
)

// PerftResult is one stored node count.
type PerftResult struct {
	FEN        string        `json:"fen"`
	Depth      int           `json:"depth"`
	Promotions string        `json:"promotions"`
	Nodes      uint64        `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// RunStats accumulates totals over every recorded perft run.
type RunStats struct {
	Runs       int           `json:"runs"`
	CacheHits  int           `json:"cache_hits"`
	TotalNodes uint64        `json:"total_nodes"`
	TotalTime  time.Duration `json:"total_time"`
}

// NodesPerSecond returns the average speed over all computed runs.
func (s *RunStats) NodesPerSecond() float64 {
	if s.TotalTime <= 0 {
		return 0
	}
	return float64(s.TotalNodes) / s.TotalTime.Seconds()
}

// Options configures Open.
type Options struct {
	// Dir is the database directory. Empty means GetDatabaseDir().
	Dir string
	// InMemory keeps everything in RAM; Dir is ignored.
	InMemory bool
	Logger   logr.Logger
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log logr.Logger
}

// NewStorage opens the database in the default data directory.
func NewStorage(log logr.Logger) (*Storage, error) {
	return Open(Options{Logger: log})
}

// Open opens or creates a database.
func Open(opts Options) (*Storage, error) {
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir := opts.Dir
		if dir == "" {
			var err error
			if dir, err = GetDatabaseDir(); err != nil {
				return nil, fmt.Errorf("locate database: %w", err)
			}
		}
		bopts = badger.DefaultOptions(dir)
		log.V(1).Info("opening perft store", "dir", dir)
	}
	bopts = bopts.WithLogger(newBadgerLogger(log))

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &Storage{db: db, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// perftKey identifies a result by the position fields that affect the count
// (placement, side, castling, en passant), the promotion set and the depth.
func perftKey(fen, promotions string, depth int) []byte {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return []byte(fmt.Sprintf("%s%s/%02d/%s", perftPrefix, promotions, depth, strings.Join(fields, " ")))
}

// SavePerft stores a result, replacing any earlier one for the same key.
func (s *Storage) SavePerft(r PerftResult) error {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(r.FEN, r.Promotions, r.Depth), data)
	})
}

// LoadPerft looks up a stored result. The boolean is false when none exists.
func (s *Storage) LoadPerft(fen, promotions string, depth int) (PerftResult, bool, error) {
	var r PerftResult
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(fen, promotions, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})

	return r, found, err
}

// PerftResults returns every stored result in key order.
func (s *Storage) PerftResults() ([]PerftResult, error) {
	var results []PerftResult

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(perftPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var r PerftResult
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})

	return results, err
}

// SaveStats saves run statistics
func (s *Storage) SaveStats(stats *RunStats) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return putStats(txn, stats)
	})
}

// LoadStats loads run statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*RunStats, error) {
	var stats *RunStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = getStats(txn)
		return err
	})
	return stats, err
}

// RecordRun adds one perft run to the statistics. Cached runs count towards
// Runs and CacheHits only. Concurrent writers that collide are retried.
func (s *Storage) RecordRun(nodes uint64, elapsed time.Duration, cached bool) error {
	for {
		err := s.db.Update(func(txn *badger.Txn) error {
			stats, err := getStats(txn)
			if err != nil {
				return err
			}

			stats.Runs++
			if cached {
				stats.CacheHits++
			} else {
				stats.TotalNodes += nodes
				stats.TotalTime += elapsed
			}
			return putStats(txn, stats)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.V(2).Info("retrying stats update after conflict")
	}
}

func getStats(txn *badger.Txn) (*RunStats, error) {
	stats := &RunStats{}

	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

func putStats(txn *badger.Txn, stats *RunStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set([]byte(keyStats), data)
}
