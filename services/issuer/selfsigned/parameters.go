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

package selfsigned

import (
	"time"

	"github.com/hanguru/handout/services/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type parameters struct {
	logLevel     zerolog.Level
	monitor      metrics.IssuerMonitor
	domain       string
	organization string
	certPath     string
	keyPath      string
	validity     time.Duration
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
func WithMonitor(monitor metrics.IssuerMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithDomain sets the domain for which certificates are issued.
func WithDomain(domain string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.domain = domain
	})
}

// WithOrganization sets the organization name placed in issued certificates.
func WithOrganization(organization string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.organization = organization
	})
}

// WithCertPath sets the path at which the full-chain certificate is written.
func WithCertPath(certPath string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.certPath = certPath
	})
}

// WithKeyPath sets the path at which the private key is written.
func WithKeyPath(keyPath string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.keyPath = keyPath
	})
}

// WithValidity sets the validity period of issued certificates.
func WithValidity(validity time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.validity = validity
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel:     zerolog.GlobalLevel(),
		organization: "The Bushido Collective",
		validity:     365 * 24 * time.Hour,
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
	if parameters.domain == "" {
		return nil, errors.New("no domain specified")
	}
	if parameters.certPath == "" {
		return nil, errors.New("no certificate path specified")
	}
	if parameters.keyPath == "" {
		return nil, errors.New("no key path specified")
	}
	if parameters.validity <= 0 {
		return nil, errors.New("no validity specified")
	}

	return &parameters, nil
}
