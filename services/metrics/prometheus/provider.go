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
	"strings"
	"time"

	"github.com/hanguru/handout/core"
	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupProviderMetrics() error {
	s.providerTimer = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "handout",
		Subsystem: "provider",
		Name:      "duration_seconds",
		Help:      "The time handout spends reading certificate bundles.",
		Buckets: []float64{
			0.001, 0.002, 0.003, 0.004, 0.005, 0.006, 0.007, 0.008, 0.009, 0.010,
			0.015, 0.020, 0.025, 0.030, 0.040, 0.050, 0.075, 0.100, 0.250, 0.500,
		},
	})
	if err := prometheus.Register(s.providerTimer); err != nil {
		return err
	}

	s.providerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "handout",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "The number of certificate bundle requests.",
	}, []string{"result"})
	return prometheus.Register(s.providerRequests)
}

// BundleServed is called when a certificate bundle request has completed.
func (s *Service) BundleServed(started time.Time, result core.Result) {
	s.providerTimer.Observe(time.Since(started).Seconds())
	s.providerRequests.WithLabelValues(strings.ToLower(result.String())).Inc()
}
