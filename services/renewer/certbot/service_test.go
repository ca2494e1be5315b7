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

package certbot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hanguru/handout/core"
	badgerjournal "github.com/hanguru/handout/services/journal/badger"
	"github.com/hanguru/handout/services/renewer/certbot"
	"github.com/hanguru/handout/testing/logger"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner records invocations and returns canned results.
type mockRunner struct {
	mu       sync.Mutex
	commands [][]string
	output   []byte
	err      error
}

func (r *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, append([]string{name}, args...))
	return r.output, r.err
}

func (r *mockRunner) invocations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commands)
}

func TestNew(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tests := []struct {
		name   string
		params []certbot.Parameter
		err    string
	}{
		{
			name: "CommandMissing",
			params: []certbot.Parameter{
				certbot.WithLogLevel(zerolog.Disabled),
				certbot.WithCommand(""),
				certbot.WithInterval(0),
			},
			err: "problem with parameters: no command specified",
		},
		{
			name: "IntervalBad",
			params: []certbot.Parameter{
				certbot.WithLogLevel(zerolog.Disabled),
				certbot.WithInterval(-time.Hour),
			},
			err: "problem with parameters: invalid interval specified",
		},
		{
			name: "Good",
			params: []certbot.Parameter{
				certbot.WithLogLevel(zerolog.Disabled),
				certbot.WithRunner(&mockRunner{}),
				certbot.WithInterval(0),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := certbot.New(ctx, test.params...)
			if test.err == "" {
				require.NoError(t, err)
			} else {
				require.EqualError(t, err, test.err)
			}
		})
	}
}

func TestRenew(t *testing.T) {
	ctx := context.Background()
	runner := &mockRunner{output: []byte("Certificate not yet due for renewal\n")}

	service, err := certbot.New(ctx,
		certbot.WithLogLevel(zerolog.Disabled),
		certbot.WithRunner(runner),
		certbot.WithInterval(0),
	)
	require.NoError(t, err)

	record := service.Renew(ctx)
	require.NotNil(t, record)
	assert.Equal(t, core.ResultSucceeded.String(), record.Result)
	assert.Equal(t, "Certificate not yet due for renewal", record.Output)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.EndTime.Before(record.StartTime))

	require.Equal(t, 1, runner.invocations())
	assert.Equal(t, []string{"certbot", "renew", "--non-interactive", "--preferred-chain", "shortlived"}, runner.commands[0])
}

func TestRenewFailure(t *testing.T) {
	ctx := context.Background()
	runner := &mockRunner{
		output: []byte("Some challenges have failed.\n"),
		err:    errors.New("exit status 1"),
	}

	service, err := certbot.New(ctx,
		certbot.WithLogLevel(zerolog.Disabled),
		certbot.WithRunner(runner),
		certbot.WithInterval(0),
	)
	require.NoError(t, err)

	// A failing command yields a failed record, not an error.
	record := service.Renew(ctx)
	require.NotNil(t, record)
	assert.Equal(t, core.ResultFailed.String(), record.Result)
	assert.Equal(t, "Some challenges have failed.", record.Output)

	// The loop is unaffected; another attempt works the same way.
	record = service.Renew(ctx)
	require.NotNil(t, record)
	require.Equal(t, 2, runner.invocations())
}

func TestRenewFailureLogged(t *testing.T) {
	ctx := context.Background()
	capture := logger.NewLogCapture()
	runner := &mockRunner{
		output: []byte("Some challenges have failed.\n"),
		err:    errors.New("exit status 1"),
	}

	service, err := certbot.New(ctx,
		certbot.WithLogLevel(zerolog.TraceLevel),
		certbot.WithRunner(runner),
		certbot.WithInterval(0),
	)
	require.NoError(t, err)

	service.Renew(ctx)
	assert.True(t, capture.HasLog(map[string]any{
		"service": "renewer",
		"impl":    "certbot",
		"message": "Renewal attempt failed",
	}))
}

func TestRenewRecordsToJournal(t *testing.T) {
	ctx := context.Background()

	journal, err := badgerjournal.New(ctx,
		badgerjournal.WithLogLevel(zerolog.Disabled),
		badgerjournal.WithStoragePath(t.TempDir()),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, journal.Close(ctx))
	}()

	runner := &mockRunner{output: []byte("renewed\n")}
	service, err := certbot.New(ctx,
		certbot.WithLogLevel(zerolog.Disabled),
		certbot.WithRunner(runner),
		certbot.WithJournal(journal),
		certbot.WithInterval(0),
	)
	require.NoError(t, err)

	record := service.Renew(ctx)
	require.NotNil(t, record)

	records, err := journal.Records(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}

func TestRenewalLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &mockRunner{output: []byte("ok\n")}
	_, err := certbot.New(ctx,
		certbot.WithLogLevel(zerolog.Disabled),
		certbot.WithRunner(runner),
		certbot.WithInterval(10*time.Millisecond),
	)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return runner.invocations() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(50 * time.Millisecond)
	after := runner.invocations()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runner.invocations())
}
