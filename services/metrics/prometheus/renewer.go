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

func (s *Service) setupRenewerMetrics() error {
	s.renewerTimer = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "handout",
		Subsystem: "renewer",
		Name:      "duration_seconds",
		Help:      "The time handout spends in renewal attempts.",
		Buckets: []float64{
			1, 2, 5, 10, 15, 20, 30, 45, 60, 90,
			120, 180, 240, 300, 600,
		},
	})
	if err := prometheus.Register(s.renewerTimer); err != nil {
		return err
	}

	s.renewerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "handout",
		Subsystem: "renewer",
		Name:      "attempts_total",
		Help:      "The number of certificate renewal attempts.",
	}, []string{"result"})
	return prometheus.Register(s.renewerRequests)
}

// RenewalCompleted is called when a renewal attempt has completed.
func (s *Service) RenewalCompleted(started time.Time, result core.Result) {
	s.renewerTimer.Observe(time.Since(started).Seconds())
	s.renewerRequests.WithLabelValues(strings.ToLower(result.String())).Inc()
}
