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

package rest

import (
	"github.com/hanguru/handout/services/journal"
	"github.com/hanguru/handout/services/metrics"
	"github.com/hanguru/handout/services/provider"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type parameters struct {
	logLevel      zerolog.Level
	monitor       metrics.APIMonitor
	provider      provider.Service
	journal       journal.Service
	listenAddress string
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
func WithMonitor(monitor metrics.APIMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithProvider sets the certificate provider for this module.
func WithProvider(provider provider.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.provider = provider
	})
}

// WithJournal sets the renewal journal for this module.  Without a journal
// the renewals route is not registered.
func WithJournal(journal journal.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.journal = journal
	})
}

// WithListenAddress sets the listen address for the module.
func WithListenAddress(listenAddress string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.listenAddress = listenAddress
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
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
	if parameters.provider == nil {
		return nil, errors.New("no provider specified")
	}
	if parameters.listenAddress == "" {
		return nil, errors.New("no listen address specified")
	}

	return &parameters, nil
}
