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

// Package cmd provides commands that run and exit rather than running the daemon.
package cmd

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	majordomo "github.com/wealdtech/go-majordomo"
)

// ShowCertificate shows information about the certificate material being served.
func ShowCertificate(ctx context.Context, majordomo majordomo.Service, certURI string, keyURI string) error {
	certPEMBlock, err := majordomo.Fetch(ctx, certURI)
	if err != nil {
		return errors.Wrap(err, "failed to obtain certificate")
	}
	fmt.Fprintf(os.Stdout, "Certificate obtained from %s\n", certURI)
	keyPEMBlock, err := majordomo.Fetch(ctx, keyURI)
	if err != nil {
		return errors.Wrap(err, "failed to obtain key")
	}
	fmt.Fprintf(os.Stdout, "Key obtained from %s\n", keyURI)
	fmt.Fprintln(os.Stdout)

	servedCert, err := tls.X509KeyPair(certPEMBlock, keyPEMBlock)
	if err != nil {
		return errors.Wrap(err, "invalid certificate/key")
	}
	if len(servedCert.Certificate) == 0 {
		return errors.New("certificate file does not contain a certificate")
	}
	cert, err := x509.ParseCertificate(servedCert.Certificate[0])
	if err != nil {
		return errors.Wrap(err, "could not read certificate")
	}
	fmt.Fprintf(os.Stdout, "Certificate issued by: %s\n", cert.Issuer.CommonName)
	fmt.Fprintf(os.Stdout, "Certificate issued to: %s\n", cert.Subject.CommonName)
	if len(cert.DNSNames) > 0 {
		fmt.Fprintf(os.Stdout, "Certificate names: %s\n", strings.Join(cert.DNSNames, ", "))
	}
	if cert.NotAfter.Before(time.Now()) {
		fmt.Fprintf(os.Stdout, "WARNING: certificate expired at: %v\n", cert.NotAfter)
	} else {
		fmt.Fprintf(os.Stdout, "Certificate expires: %v\n", cert.NotAfter)
	}

	return nil
}
