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

package badger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hanguru/handout/core"
	badgerjournal "github.com/hanguru/handout/services/journal/badger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournal(t *testing.T) *badgerjournal.Service {
	t.Helper()
	service, err := badgerjournal.New(context.Background(),
		badgerjournal.WithLogLevel(zerolog.Disabled),
		badgerjournal.WithStoragePath(t.TempDir()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, service.Close(context.Background()))
	})
	return service
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	_, err := badgerjournal.New(ctx, badgerjournal.WithLogLevel(zerolog.Disabled))
	require.EqualError(t, err, "problem with parameters: no storage path specified")

	service, err := badgerjournal.New(ctx,
		badgerjournal.WithLogLevel(zerolog.Disabled),
		badgerjournal.WithStoragePath(t.TempDir()),
	)
	require.NoError(t, err)
	require.NoError(t, service.Close(ctx))
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	service := newJournal(t)

	require.EqualError(t, service.Record(ctx, nil), "no record provided")
	require.EqualError(t, service.Record(ctx, &core.RenewalRecord{}), "no record ID provided")

	record := &core.RenewalRecord{
		ID:        uuid.New().String(),
		StartTime: time.Now().Add(-time.Minute),
		EndTime:   time.Now(),
		Result:    core.ResultSucceeded.String(),
		Output:    "Certificate not yet due for renewal",
	}
	require.NoError(t, service.Record(ctx, record))

	records, err := service.Records(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
	assert.Equal(t, record.Result, records[0].Result)
	assert.Equal(t, record.Output, records[0].Output)
}

func TestRecordsNewestFirst(t *testing.T) {
	ctx := context.Background()
	service := newJournal(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		record := &core.RenewalRecord{
			ID:        fmt.Sprintf("record-%d", i),
			StartTime: base.Add(time.Duration(i) * time.Minute),
			EndTime:   base.Add(time.Duration(i)*time.Minute + time.Second),
			Result:    core.ResultSucceeded.String(),
		}
		require.NoError(t, service.Record(ctx, record))
	}

	records, err := service.Records(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "record-4", records[0].ID)
	assert.Equal(t, "record-3", records[1].ID)
	assert.Equal(t, "record-2", records[2].ID)

	_, err = service.Records(ctx, 0)
	require.EqualError(t, err, "no limit provided")
}
