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

package util

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// LogLevel fetches the log level for a path in the configuration, using the
// closest value up the path hierarchy and falling back to the global level.
func LogLevel(path string) zerolog.Level {
	for {
		key := "log-level"
		if path != "" {
			key = fmt.Sprintf("%s.log-level", path)
		}
		if viper.GetString(key) != "" {
			return logLevel(viper.GetString(key))
		}
		if path == "" {
			return logLevel("")
		}
		// Lop off the child and try again.
		lastPeriod := strings.LastIndex(path, ".")
		if lastPeriod == -1 {
			path = ""
		} else {
			path = path[0:lastPeriod]
		}
	}
}

// logLevel converts a string to a log level.
func logLevel(input string) zerolog.Level {
	switch strings.ToLower(input) {
	case "none":
		return zerolog.Disabled
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
