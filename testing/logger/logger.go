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

// Package logger provides a log capture facility for tests.
package logger

import (
	"encoding/json"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// LogCapture captures log entries written through the global zerolog logger
// so that tests can assert on them.
type LogCapture struct {
	mu      sync.Mutex
	entries []map[string]any
}

// NewLogCapture creates a new log capture and installs it as the global
// zerolog output.
func NewLogCapture() *LogCapture {
	c := &LogCapture{
		entries: make([]map[string]any, 0),
	}
	zerologger.Logger = zerolog.New(c).Level(zerolog.TraceLevel)
	return c
}

// Write implements io.Writer, decoding each log line into a field map.
func (c *LogCapture) Write(data []byte) (int, error) {
	entry := make(map[string]any)
	if err := json.Unmarshal(data, &entry); err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
	return len(data), nil
}

// Entries returns a copy of the captured log entries.
func (c *LogCapture) Entries() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]map[string]any, len(c.entries))
	copy(entries, c.entries)
	return entries
}

// ClearEntries removes all captured log entries.
func (c *LogCapture) ClearEntries() {
	c.mu.Lock()
	c.entries = c.entries[:0]
	c.mu.Unlock()
}

// HasLog returns true if an entry exists containing all of the given fields.
func (c *LogCapture) HasLog(fields map[string]any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.entries {
		matched := true
		for key, value := range fields {
			if !reflect.DeepEqual(entry[key], value) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
