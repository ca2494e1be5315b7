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

package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Service is a metrics service exposing metrics via prometheus.
type Service struct {
	build prometheus.Gauge
	ready prometheus.Gauge

	apiRequests *prometheus.CounterVec
	apiTimer    prometheus.Histogram

	providerRequests *prometheus.CounterVec
	providerTimer    prometheus.Histogram

	renewerRequests *prometheus.CounterVec
	renewerTimer    prometheus.Histogram

	issuerCertificates prometheus.Counter
}

// module-wide log.
var log zerolog.Logger

// New creates a new prometheus metrics service.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "metrics").Str("impl", "prometheus").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{}

	if err := s.setupBaseMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up base metrics")
	}
	if err := s.setupAPIMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up API metrics")
	}
	if err := s.setupProviderMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up provider metrics")
	}
	if err := s.setupRenewerMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up renewer metrics")
	}
	if err := s.setupIssuerMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up issuer metrics")
	}

	go func() {
		server := &http.Server{
			Addr:              parameters.address,
			ReadHeaderTimeout: 5 * time.Second,
		}
		http.Handle("/metrics", promhttp.Handler())
		if err := server.ListenAndServe(); err != nil {
			log.Warn().Str("metrics_address", parameters.address).Err(err).Msg("Failed to run metrics server")
		}
	}()

	return s, nil
}

// Presenter returns the presenter for the service.
func (*Service) Presenter() string {
	return "prometheus"
}
