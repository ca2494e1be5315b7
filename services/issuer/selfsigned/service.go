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

package selfsigned

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hanguru/handout/services/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Service issues self-signed certificates for the configured domain when no
// material exists, to allow consumers to bootstrap before the first ACME
// issuance completes.
type Service struct {
	monitor      metrics.IssuerMonitor
	domain       string
	organization string
	certPath     string
	keyPath      string
	validity     time.Duration
}

// module-wide log.
var log zerolog.Logger

// New creates a new self-signed certificate issuer.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "issuer").Str("impl", "selfsigned").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		monitor:      parameters.monitor,
		domain:       parameters.domain,
		organization: parameters.organization,
		certPath:     parameters.certPath,
		keyPath:      parameters.keyPath,
		validity:     parameters.validity,
	}

	return s, nil
}

// EnsureBundle makes certain that certificate material exists for the domain,
// issuing it if required.
func (s *Service) EnsureBundle(_ context.Context) (bool, error) {
	certExists := fileExists(s.certPath)
	keyExists := fileExists(s.keyPath)

	switch {
	case certExists && keyExists:
		log.Trace().Str("cert_path", s.certPath).Msg("Certificate material already present")
		return false, nil
	case certExists != keyExists:
		// Refuse to touch a partial bundle; the operator needs to resolve this.
		return false, errors.New("partial certificate material present; not overwriting")
	}

	certPEM, keyPEM, err := s.issue()
	if err != nil {
		return false, errors.Wrap(err, "failed to issue certificate")
	}

	if err := os.MkdirAll(filepath.Dir(s.certPath), 0o755); err != nil {
		return false, errors.Wrap(err, "failed to create certificate directory")
	}
	if err := os.MkdirAll(filepath.Dir(s.keyPath), 0o755); err != nil {
		return false, errors.Wrap(err, "failed to create key directory")
	}
	if err := os.WriteFile(s.certPath, certPEM, 0o644); err != nil {
		return false, errors.Wrap(err, "failed to write certificate")
	}
	if err := os.WriteFile(s.keyPath, keyPEM, 0o600); err != nil {
		return false, errors.Wrap(err, "failed to write key")
	}

	log.Info().Str("domain", s.domain).Str("cert_path", s.certPath).Dur("validity", s.validity).Msg("Issued self-signed certificate")
	s.monitor.CertificateIssued()

	return true, nil
}

// issue generates a self-signed certificate and key, both PEM-encoded.
func (s *Service) issue() ([]byte, []byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate key")
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate serial number")
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   s.domain,
			Organization: []string{s.organization},
		},
		NotBefore:             now,
		NotAfter:              now.Add(s.validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{s.domain, "localhost"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create certificate")
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to marshal key")
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})

	return certPEM, keyPEM, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
