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

// Package rest provides the certificate distribution HTTP API.
package rest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hanguru/handout/services/journal"
	"github.com/hanguru/handout/services/metrics"
	"github.com/hanguru/handout/services/provider"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Service provides the features and functions for the HTTP daemon.
type Service struct {
	monitor  metrics.APIMonitor
	provider provider.Service
	journal  journal.Service
	app      *fiber.App
}

// module-wide log.
var log zerolog.Logger

// New creates a new API service over HTTP.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "api").Str("impl", "rest").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		monitor:  parameters.monitor,
		provider: parameters.provider,
		journal:  parameters.journal,
	}
	s.app = s.createApp()

	if err := s.serve(parameters.listenAddress); err != nil {
		return nil, errors.Wrap(err, "failed to start API server")
	}

	// Shut down the server on context done.
	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(2 * time.Second); err != nil {
			log.Warn().Err(err).Msg("Failed to shut down API server cleanly")
		}
	}()

	return s, nil
}

// createApp creates the fiber application and registers the routes.
func (s *Service) createApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "handout",
		DisableStartupMessage: true,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Internal server error"})
		},
	})

	app.Get("/health", s.handleHealth)
	app.Get("/coordinator/latest", s.handleLatest)
	if s.journal != nil {
		app.Get("/coordinator/renewals", s.handleRenewals)
	}

	// Everything else is not found.
	app.Use(s.handleNotFound)

	return app
}

// serve serves the HTTP server.
func (s *Service) serve(listenAddress string) error {
	log.Info().Str("address", listenAddress).Msg("Listening")

	go func() {
		if err := s.app.Listen(listenAddress); err != nil {
			log.Error().Err(err).Msg("Could not start HTTP server")
		}
	}()
	return nil
}
