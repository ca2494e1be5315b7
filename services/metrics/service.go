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

// Package metrics tracks various metrics that measure the performance of handout.
package metrics

import (
	"time"

	"github.com/hanguru/handout/core"
)

// Service is the generic metrics service.
type Service interface{}

// BaseMonitor provides base information about the instance.
type BaseMonitor interface {
	// Build is called when the build number is established.
	Build(build uint64)
}

// ReadyMonitor provides information about if the process is ready.
type ReadyMonitor interface {
	// Ready is called when the service is ready to serve requests, or when it stops being so.
	Ready(ready bool)
}

// APIMonitor monitors the API service.
type APIMonitor interface {
	// RequestHandled is called when an API request has been handled.
	RequestHandled(route string, started time.Time, result core.Result)
}

// ProviderMonitor monitors the certificate provider service.
type ProviderMonitor interface {
	// BundleServed is called when a certificate bundle request has completed.
	BundleServed(started time.Time, result core.Result)
}

// RenewerMonitor monitors the renewer service.
type RenewerMonitor interface {
	// RenewalCompleted is called when a renewal attempt has completed.
	RenewalCompleted(started time.Time, result core.Result)
}

// IssuerMonitor monitors the issuer service.
type IssuerMonitor interface {
	// CertificateIssued is called when a certificate has been issued.
	CertificateIssued()
}

// JournalMonitor monitors the journal service.
type JournalMonitor interface {
}
