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

package selfsigned_test

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hanguru/handout/services/issuer/selfsigned"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params []selfsigned.Parameter
		err    string
	}{
		{
			name: "DomainMissing",
			params: []selfsigned.Parameter{
				selfsigned.WithLogLevel(zerolog.Disabled),
				selfsigned.WithCertPath("/tmp/fullchain.pem"),
				selfsigned.WithKeyPath("/tmp/privkey.pem"),
			},
			err: "problem with parameters: no domain specified",
		},
		{
			name: "CertPathMissing",
			params: []selfsigned.Parameter{
				selfsigned.WithLogLevel(zerolog.Disabled),
				selfsigned.WithDomain("coordinator.local.han.guru"),
				selfsigned.WithKeyPath("/tmp/privkey.pem"),
			},
			err: "problem with parameters: no certificate path specified",
		},
		{
			name: "KeyPathMissing",
			params: []selfsigned.Parameter{
				selfsigned.WithLogLevel(zerolog.Disabled),
				selfsigned.WithDomain("coordinator.local.han.guru"),
				selfsigned.WithCertPath("/tmp/fullchain.pem"),
			},
			err: "problem with parameters: no key path specified",
		},
		{
			name: "ValidityBad",
			params: []selfsigned.Parameter{
				selfsigned.WithLogLevel(zerolog.Disabled),
				selfsigned.WithDomain("coordinator.local.han.guru"),
				selfsigned.WithCertPath("/tmp/fullchain.pem"),
				selfsigned.WithKeyPath("/tmp/privkey.pem"),
				selfsigned.WithValidity(0),
			},
			err: "problem with parameters: no validity specified",
		},
		{
			name: "Good",
			params: []selfsigned.Parameter{
				selfsigned.WithLogLevel(zerolog.Disabled),
				selfsigned.WithDomain("coordinator.local.han.guru"),
				selfsigned.WithCertPath("/tmp/fullchain.pem"),
				selfsigned.WithKeyPath("/tmp/privkey.pem"),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := selfsigned.New(ctx, test.params...)
			if test.err == "" {
				require.NoError(t, err)
			} else {
				require.EqualError(t, err, test.err)
			}
		})
	}
}

func TestEnsureBundle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	certPath := filepath.Join(dir, "fullchain.pem")
	keyPath := filepath.Join(dir, "privkey.pem")

	service, err := selfsigned.New(ctx,
		selfsigned.WithLogLevel(zerolog.Disabled),
		selfsigned.WithDomain("coordinator.local.han.guru"),
		selfsigned.WithCertPath(certPath),
		selfsigned.WithKeyPath(keyPath),
		selfsigned.WithValidity(365*24*time.Hour),
	)
	require.NoError(t, err)

	issued, err := service.EnsureBundle(ctx)
	require.NoError(t, err)
	require.True(t, issued)

	certPEM, err := os.ReadFile(certPath)
	require.NoError(t, err)
	keyPEM, err := os.ReadFile(keyPath)
	require.NoError(t, err)

	// The pair must load as a usable keypair.
	_, err = tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)

	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)

	assert.Equal(t, "coordinator.local.han.guru", cert.Subject.CommonName)
	assert.Contains(t, cert.DNSNames, "coordinator.local.han.guru")
	assert.Contains(t, cert.DNSNames, "localhost")
	require.Len(t, cert.IPAddresses, 1)
	assert.True(t, cert.IPAddresses[0].Equal([]byte{127, 0, 0, 1}))
	assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), cert.NotAfter, time.Minute)
}

func TestEnsureBundleDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	certPath := filepath.Join(dir, "fullchain.pem")
	keyPath := filepath.Join(dir, "privkey.pem")

	existingCert := []byte("existing cert\n")
	existingKey := []byte("existing key\n")
	require.NoError(t, os.WriteFile(certPath, existingCert, 0o644))
	require.NoError(t, os.WriteFile(keyPath, existingKey, 0o600))

	service, err := selfsigned.New(ctx,
		selfsigned.WithLogLevel(zerolog.Disabled),
		selfsigned.WithDomain("coordinator.local.han.guru"),
		selfsigned.WithCertPath(certPath),
		selfsigned.WithKeyPath(keyPath),
	)
	require.NoError(t, err)

	issued, err := service.EnsureBundle(ctx)
	require.NoError(t, err)
	require.False(t, issued)

	certPEM, err := os.ReadFile(certPath)
	require.NoError(t, err)
	assert.Equal(t, existingCert, certPEM)
	keyPEM, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	assert.Equal(t, existingKey, keyPEM)
}

func TestEnsureBundlePartialMaterial(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	certPath := filepath.Join(dir, "fullchain.pem")
	keyPath := filepath.Join(dir, "privkey.pem")

	require.NoError(t, os.WriteFile(certPath, []byte("orphaned cert\n"), 0o644))

	service, err := selfsigned.New(ctx,
		selfsigned.WithLogLevel(zerolog.Disabled),
		selfsigned.WithDomain("coordinator.local.han.guru"),
		selfsigned.WithCertPath(certPath),
		selfsigned.WithKeyPath(keyPath),
	)
	require.NoError(t, err)

	_, err = service.EnsureBundle(ctx)
	require.EqualError(t, err, "partial certificate material present; not overwriting")
}
