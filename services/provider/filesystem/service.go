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

package filesystem

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"time"

	"github.com/hanguru/handout/core"
	"github.com/hanguru/handout/services/metrics"
	"github.com/hanguru/handout/services/provider"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	majordomo "github.com/wealdtech/go-majordomo"
)

// Service provides certificate bundles read from the filesystem on each
// request.  The files are owned by an external renewal process; no state is
// held between requests.
type Service struct {
	monitor    metrics.ProviderMonitor
	majordomo  majordomo.Service
	certURI    string
	keyURI     string
	domain     string
	expiryHint time.Duration
}

// module-wide log.
var log zerolog.Logger

// New creates a new filesystem certificate provider.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "provider").Str("impl", "filesystem").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		monitor:    parameters.monitor,
		majordomo:  parameters.majordomo,
		certURI:    parameters.certURI,
		keyURI:     parameters.keyURI,
		domain:     parameters.domain,
		expiryHint: parameters.expiryHint,
	}

	log.Info().Str("domain", s.domain).Str("cert_uri", s.certURI).Msg("Serving certificate bundles")

	return s, nil
}

// Bundle returns the current certificate bundle for the domain.
func (s *Service) Bundle(ctx context.Context) (*core.Bundle, error) {
	started := time.Now()

	certPEMBlock, err := s.majordomo.Fetch(ctx, s.certURI)
	if err != nil {
		log.Warn().Err(err).Str("uri", s.certURI).Msg("Failed to obtain certificate")
		s.monitor.BundleServed(started, core.ResultFailed)
		return nil, provider.ErrNotFound
	}
	keyPEMBlock, err := s.majordomo.Fetch(ctx, s.keyURI)
	if err != nil {
		log.Warn().Err(err).Str("uri", s.keyURI).Msg("Failed to obtain key")
		s.monitor.BundleServed(started, core.ResultFailed)
		return nil, provider.ErrNotFound
	}

	// The advertised expiry is a hint computed from the read time; the
	// real leaf expiry is only surfaced in the logs.
	bundle := &core.Bundle{
		Cert:    certPEMBlock,
		Key:     keyPEMBlock,
		Domain:  s.domain,
		Expires: started.Add(s.expiryHint).UTC(),
	}

	if notAfter, ok := leafNotAfter(certPEMBlock); ok {
		log.Debug().Time("not_after", notAfter).Msg("Certificate bundle served")
		if notAfter.Before(time.Now()) {
			log.Warn().Time("not_after", notAfter).Msg("Serving expired certificate")
		}
	}

	s.monitor.BundleServed(started, core.ResultSucceeded)
	return bundle, nil
}

// leafNotAfter extracts the expiry of the leaf certificate in a PEM chain.
// The bundle is served verbatim either way, so a parse failure is not an
// error here.
func leafNotAfter(certPEMBlock []byte) (time.Time, bool) {
	block, _ := pem.Decode(certPEMBlock)
	if block == nil || block.Type != "CERTIFICATE" {
		return time.Time{}, false
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return time.Time{}, false
	}
	return cert.NotAfter, true
}
