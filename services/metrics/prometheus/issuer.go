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

package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupIssuerMetrics() error {
	s.issuerCertificates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handout",
		Subsystem: "issuer",
		Name:      "certificates_total",
		Help:      "The number of self-signed certificates issued.",
	})
	return prometheus.Register(s.issuerCertificates)
}

// CertificateIssued is called when a certificate has been issued.
func (s *Service) CertificateIssued() {
	s.issuerCertificates.Inc()
}
