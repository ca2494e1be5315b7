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

package certbot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hanguru/handout/core"
	"github.com/hanguru/handout/services/journal"
	"github.com/hanguru/handout/services/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// maxOutputLen caps the command output stored in a renewal record.
const maxOutputLen = 4096

// Service renews certificate material by invoking certbot periodically.
// certbot owns the certificate files entirely; this service never touches
// them itself, so a renewal racing an in-flight read is possible and
// tolerated, matching certbot's own behaviour under cron.
type Service struct {
	monitor  metrics.RenewerMonitor
	journal  journal.Service
	runner   CommandRunner
	command  string
	args     []string
	interval time.Duration
}

// module-wide log.
var log zerolog.Logger

// New creates a new certbot renewer.  If an interval is configured the
// renewal loop starts immediately and stops when the context is cancelled.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "renewer").Str("impl", "certbot").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		monitor:  parameters.monitor,
		journal:  parameters.journal,
		runner:   parameters.runner,
		command:  parameters.command,
		args:     parameters.args,
		interval: parameters.interval,
	}

	if s.interval > 0 {
		log.Info().Str("command", s.command).Dur("interval", s.interval).Msg("Starting renewal loop")
		go s.run(ctx)
	}

	return s, nil
}

// run attempts renewal on each tick until the context is cancelled.
func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Stopping renewal loop")
			return
		case <-ticker.C:
			s.Renew(ctx)
		}
	}
}

// Renew performs a single renewal attempt and reports its outcome.
func (s *Service) Renew(ctx context.Context) *core.RenewalRecord {
	started := time.Now()
	log.Trace().Str("command", s.command).Strs("args", s.args).Msg("Attempting renewal")

	output, err := s.runner.Run(ctx, s.command, s.args...)

	result := core.ResultSucceeded
	if err != nil {
		result = core.ResultFailed
		log.Warn().Err(err).Str("output", trimOutput(output)).Msg("Renewal attempt failed")
	} else {
		log.Info().Dur("elapsed", time.Since(started)).Msg("Renewal attempt completed")
	}
	s.monitor.RenewalCompleted(started, result)

	record := &core.RenewalRecord{
		ID:        uuid.New().String(),
		StartTime: started,
		EndTime:   time.Now(),
		Result:    result.String(),
		Output:    trimOutput(output),
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, record); err != nil {
			log.Warn().Err(err).Msg("Failed to record renewal attempt")
		}
	}

	return record
}

// trimOutput normalises command output for storage.
func trimOutput(output []byte) string {
	out := strings.TrimSpace(string(output))
	if len(out) > maxOutputLen {
		out = out[:maxOutputLen]
	}
	return out
}
