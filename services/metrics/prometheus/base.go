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
	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupBaseMetrics() error {
	startTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "handout",
		Name:      "start_time_secs",
		Help:      "The timestamp at which handout started.",
	})
	if err := prometheus.Register(startTime); err != nil {
		return err
	}
	startTime.SetToCurrentTime()

	s.build = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "handout",
		Name:      "build",
		Help:      "The build number of this instance.",
	})
	if err := prometheus.Register(s.build); err != nil {
		return err
	}

	s.ready = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "handout",
		Name:      "ready",
		Help:      "1 if the process is ready to serve requests, otherwise 0.",
	})
	return prometheus.Register(s.ready)
}

// Build is called when the build number is established.
func (s *Service) Build(build uint64) {
	s.build.Set(float64(build))
}

// Ready is called when the service is ready to serve requests, or when it stops being so.
func (s *Service) Ready(ready bool) {
	if ready {
		s.ready.Set(1)
	} else {
		s.ready.Set(0)
	}
}
