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

package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/hanguru/handout/services/metrics"
)

// monitor is the system-wide monitor, registered at startup.
var monitor metrics.Service

// registerMetrics registers the process-wide metrics.
func registerMetrics(_ context.Context, m metrics.Service) error {
	monitor = m
	return nil
}

// setRelease reports the release to the monitor.
func setRelease(_ context.Context, version string) {
	if baseMonitor, isMonitor := monitor.(metrics.BaseMonitor); isMonitor {
		baseMonitor.Build(buildFromVersion(version))
	}
}

// setReady reports readiness to the monitor.
func setReady(_ context.Context, ready bool) {
	if readyMonitor, isMonitor := monitor.(metrics.ReadyMonitor); isMonitor {
		readyMonitor.Ready(ready)
	}
}

// buildFromVersion turns a dotted release version in to a single number,
// with three digits for each of the minor and patch components.  Any
// pre-release suffix is ignored.
func buildFromVersion(version string) uint64 {
	if idx := strings.IndexByte(version, '-'); idx != -1 {
		version = version[:idx]
	}
	var build uint64
	for _, component := range strings.SplitN(version, ".", 3) {
		value, err := strconv.ParseUint(component, 10, 64)
		if err != nil {
			return 0
		}
		build = build*1000 + value
	}
	return build
}
