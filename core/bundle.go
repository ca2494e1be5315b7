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

package core

import "time"

// Bundle contains the certificate material served for a domain.
type Bundle struct {
	// Cert is the PEM-encoded full certificate chain, verbatim as read.
	Cert []byte
	// Key is the PEM-encoded private key, verbatim as read.
	Key []byte
	// Domain is the hostname the bundle is served for.
	Domain string
	// Expires is a display hint for the bundle expiry.  It is computed
	// at read time, not parsed from the certificate.
	Expires time.Time
}
