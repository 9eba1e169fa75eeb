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


package history

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/eventscribe/core"
)

const (
	runRecordPrefix   = "run:"
	runRecordIDSeq    = "run:id:sequence"
	sequenceBandwidth = 100
)

// Store is the BadgerDB-backed run log.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens the run log at the specified path, creating the directory
// if it doesn't exist. With inMemory set, nothing touches disk.
func Open(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte(runRecordIDSeq), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		seq:    seq,
		logger: slog.Default().With("component", "history-store"),
	}, nil
}

// Close releases the ID sequence and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn("failed to release run ID sequence", "err", err)
	}
	return s.db.Close()
}

// Append assigns the record an ID and persists it. The stored key is
// the big-endian ID, so key order is append order.
func (s *Store) Append(ctx context.Context, record RunRecord) (core.ID, error) {
	id, err := s.seq.Next()
	if err != nil {
		return 0, err
	}
	record.ID = core.ID(id)

	err = s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(runKey(record.ID), MarshalRunRecord(&record))
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("run recorded", "id", record.ID, "imported", record.Imported)
	return record.ID, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	var records []*RunRecord
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the end of the run keyspace, then walk backwards.
		prefix := []byte(runRecordPrefix)
		for iter.Seek(append(prefix, 0xff)); iter.ValidForPrefix(prefix); iter.Next() {
			key := iter.Item().Key()
			if string(key) == runRecordIDSeq {
				continue
			}
			var record *RunRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = UnmarshalRunRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
			if len(records) == limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func runKey(id core.ID) []byte {
	key := make([]byte, len(runRecordPrefix)+8)
	copy(key, runRecordPrefix)
	binary.BigEndian.PutUint64(key[len(runRecordPrefix):], uint64(id))
	return key
}
