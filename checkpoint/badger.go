package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	latestKey       = "checkpoint/latest"
	iterationPrefix = "checkpoint/iteration/"
)

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Path is the database directory, ignored InMemory.
	Path       string
	InMemory   bool
	SyncWrites bool
	// Logger receives badger's own logs. nil disables them.
	Logger *slog.Logger
}

// BadgerStore keeps the latest state and one state per finished iteration in BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadger opens or creates the database.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent checkpoints")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create checkpoint directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Save stores s as the latest state and under its iteration.
func (b *BadgerStore) Save(s *TrainingState) error {
	s.SavedAt = time.Now().UTC()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(latestKey), data); err != nil {
			return err
		}
		return txn.Set(iterationKey(s.Iteration), data)
	})
}

// Load returns the latest state.
func (b *BadgerStore) Load() (*TrainingState, error) {
	return b.get([]byte(latestKey))
}

// LoadIteration returns the state saved during iteration it.
func (b *BadgerStore) LoadIteration(it int) (*TrainingState, error) {
	return b.get(iterationKey(it))
}

// Iterations lists the iterations with a saved state in ascending order.
func (b *BadgerStore) Iterations() (its []int, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(iterationPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			n, err := strconv.Atoi(key[len(iterationPrefix):])
			if err != nil {
				return fmt.Errorf("corrupt checkpoint key %q: %w", key, err)
			}
			its = append(its, n)
		}
		return nil
	})
	return
}

func (b *BadgerStore) get(key []byte) (*TrainingState, error) {
	var s TrainingState
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint: %w", err)
	}
	return &s, nil
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// keys sort by iteration
func iterationKey(it int) []byte {
	return []byte(fmt.Sprintf("%s%010d", iterationPrefix, it))
}
