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

package filesystem

import (
	"time"

	"github.com/hanguru/handout/services/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	majordomo "github.com/wealdtech/go-majordomo"
)

type parameters struct {
	logLevel   zerolog.Level
	monitor    metrics.ProviderMonitor
	majordomo  majordomo.Service
	certURI    string
	keyURI     string
	domain     string
	expiryHint time.Duration
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
func WithMonitor(monitor metrics.ProviderMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithMajordomo sets the majordomo for this module.
func WithMajordomo(service majordomo.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.majordomo = service
	})
}

// WithCertURI sets the URI for the full-chain certificate.
func WithCertURI(certURI string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.certURI = certURI
	})
}

// WithKeyURI sets the URI for the private key.
func WithKeyURI(keyURI string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.keyURI = keyURI
	})
}

// WithDomain sets the domain the bundle is served for.
func WithDomain(domain string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.domain = domain
	})
}

// WithExpiryHint sets the duration added to the read time to produce the
// advertised bundle expiry.
func WithExpiryHint(expiryHint time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.expiryHint = expiryHint
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel:   zerolog.GlobalLevel(),
		expiryHint: 90 * 24 * time.Hour,
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
	if parameters.majordomo == nil {
		return nil, errors.New("no majordomo specified")
	}
	if parameters.certURI == "" {
		return nil, errors.New("no certificate URI specified")
	}
	if parameters.keyURI == "" {
		return nil, errors.New("no key URI specified")
	}
	if parameters.domain == "" {
		return nil, errors.New("no domain specified")
	}
	if parameters.expiryHint <= 0 {
		return nil, errors.New("no expiry hint specified")
	}

	return &parameters, nil
}
