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
	"os"

	"github.com/hanguru/handout/util"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var log = zerologger.With().Logger()

// initLogging initialises logging.
func initLogging() error {
	// Change the output file.
	if viper.GetString("log-file") != "" {
		f, err := os.OpenFile(util.ResolvePath(viper.GetString("log-file")), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return errors.Wrap(err, "failed to open log file")
		}
		zerologger.Logger = zerologger.Logger.Output(f)
		log = zerologger.Logger
	}

	// Set the global logging level; individual modules can override this.
	zerolog.SetGlobalLevel(util.LogLevel(""))

	return nil
}
