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

package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hanguru/handout/core"
)

// defaultRenewalsLimit is the number of journal entries returned when the
// caller does not ask for a specific amount.
const defaultRenewalsLimit = 20

type healthResponse struct {
	Status string `json:"status"`
}

type bundleResponse struct {
	Cert    string `json:"cert"`
	Key     string `json:"key"`
	Expires string `json:"expires"`
	Domain  string `json:"domain"`
}

type renewalsResponse struct {
	Renewals []*core.RenewalRecord `json:"renewals"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth reports liveness.  It carries out no checks beyond the
// process being able to answer.
func (*Service) handleHealth(c *fiber.Ctx) error {
	return c.JSON(healthResponse{Status: "ok"})
}

// handleLatest serves the current certificate material.  The material is
// fetched afresh on every request so that a renewal is picked up without a
// restart.
func (s *Service) handleLatest(c *fiber.Ctx) error {
	started := time.Now()

	bundle, err := s.provider.Bundle(c.UserContext())
	if err != nil {
		// Any failure to obtain the material is reported as absence.
		log.Debug().Err(err).Msg("Certificate material unavailable")
		s.monitor.RequestHandled("latest", started, core.ResultFailed)
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Certificate not found"})
	}

	s.monitor.RequestHandled("latest", started, core.ResultSucceeded)
	return c.JSON(bundleResponse{
		Cert:    string(bundle.Cert),
		Key:     string(bundle.Key),
		Expires: bundle.Expires.UTC().Format(time.RFC3339),
		Domain:  bundle.Domain,
	})
}

// handleRenewals serves the most recent renewal attempts, newest first.
func (s *Service) handleRenewals(c *fiber.Ctx) error {
	started := time.Now()

	limit := c.QueryInt("limit", defaultRenewalsLimit)
	if limit <= 0 {
		limit = defaultRenewalsLimit
	}

	records, err := s.journal.Records(c.UserContext(), limit)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch renewal records")
		s.monitor.RequestHandled("renewals", started, core.ResultFailed)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Internal server error"})
	}
	if records == nil {
		records = make([]*core.RenewalRecord, 0)
	}

	s.monitor.RequestHandled("renewals", started, core.ResultSucceeded)
	return c.JSON(renewalsResponse{Renewals: records})
}

// handleNotFound answers every unregistered route.
func (s *Service) handleNotFound(c *fiber.Ctx) error {
	s.monitor.RequestHandled("unknown", time.Now(), core.ResultFailed)
	return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Not found"})
}
