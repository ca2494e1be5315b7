// Copyright © 2025 The Bushido Collective.
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

package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/dgraph-io/badger/v2/options"
	"github.com/hanguru/handout/core"
	"github.com/hanguru/handout/services/metrics"
	"github.com/hanguru/handout/util/loggers"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Service stores renewal records in a badger database, keyed by attempt
// start time so that iteration order is chronological.
type Service struct {
	monitor metrics.JournalMonitor
	db      *badger.DB
}

// module-wide log.
var log zerolog.Logger

// New creates a new badger-backed renewal journal.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "journal").Str("impl", "badger").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	opt := badger.DefaultOptions(parameters.storagePath)
	opt.TableLoadingMode = options.LoadToRAM
	opt.ValueLogLoadingMode = options.MemoryMap
	opt.SyncWrites = true
	opt.Logger = loggers.NewBadgerLogger(log)
	db, err := badger.Open(opt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open journal database")
	}

	return &Service{
		monitor: parameters.monitor,
		db:      db,
	}, nil
}

// Record stores the outcome of a renewal attempt.
func (s *Service) Record(ctx context.Context, record *core.RenewalRecord) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "journal.Record")
	defer span.Finish()

	if record == nil {
		return errors.New("no record provided")
	}
	if record.ID == "" {
		return errors.New("no record ID provided")
	}

	value, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to marshal record")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(record), value)
	})
}

// Records returns the most recent renewal records, newest first.
func (s *Service) Records(ctx context.Context, limit int) ([]*core.RenewalRecord, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "journal.Records")
	defer span.Finish()

	if limit <= 0 {
		return nil, errors.New("no limit provided")
	}

	records := make([]*core.RenewalRecord, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Keys sort chronologically, so reverse iteration walks from
		// the newest record backwards.
		for it.Rewind(); it.Valid() && len(records) < limit; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				record := &core.RenewalRecord{}
				if err := json.Unmarshal(val, record); err != nil {
					return errors.Wrap(err, "failed to unmarshal record")
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the journal.
func (s *Service) Close(_ context.Context) error {
	return s.db.Close()
}

// recordKey builds the storage key for a record: big-endian start time
// followed by the record ID to break ties.
func recordKey(record *core.RenewalRecord) []byte {
	key := make([]byte, 8, 8+len(record.ID))
	binary.BigEndian.PutUint64(key, uint64(record.StartTime.UnixNano()))
	return append(key, record.ID...)
}
