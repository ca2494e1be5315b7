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
	"time"

	"github.com/hanguru/handout/services/journal"
	"github.com/hanguru/handout/services/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type parameters struct {
	logLevel zerolog.Level
	monitor  metrics.RenewerMonitor
	journal  journal.Service
	runner   CommandRunner
	command  string
	args     []string
	interval time.Duration
}

// Parameter is the interface for service parameters.
type Parameter interface {
	apply(*parameters)
}

type parameterFunc func(*parameters)

func (f parameterFunc) apply(p *parameters) {
	f(p)
}

// WithLogLevel sets the log level for the module.
func WithLogLevel(logLevel zerolog.Level) Parameter {
	return parameterFunc(func(p *parameters) {
		p.logLevel = logLevel
	})
}

// WithMonitor sets the monitor for this module.
func WithMonitor(monitor metrics.RenewerMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithJournal sets the journal in which renewal outcomes are recorded.
func WithJournal(journal journal.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.journal = journal
	})
}

// WithRunner sets the command runner for this module.
func WithRunner(runner CommandRunner) Parameter {
	return parameterFunc(func(p *parameters) {
		p.runner = runner
	})
}

// WithCommand sets the renewal command.
func WithCommand(command string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.command = command
	})
}

// WithArgs sets the arguments passed to the renewal command.
func WithArgs(args []string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.args = args
	})
}

// WithInterval sets the interval between renewal attempts.  An interval of
// zero disables the periodic loop; renewals then only happen on demand.
func WithInterval(interval time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.interval = interval
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
		runner:   execRunner{},
		command:  "certbot",
		args:     []string{"renew", "--non-interactive", "--preferred-chain", "shortlived"},
		interval: 12 * time.Hour,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.monitor == nil {
		// Use no-op monitor.
		parameters.monitor = &noopMonitor{}
	}
	if parameters.runner == nil {
		return nil, errors.New("no runner specified")
	}
	if parameters.command == "" {
		return nil, errors.New("no command specified")
	}
	if parameters.interval < 0 {
		return nil, errors.New("invalid interval specified")
	}

	return &parameters, nil
}
