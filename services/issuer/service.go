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

// Package issuer bootstraps certificate material for the configured domain
// when none exists yet.
package issuer

import "context"

// Service is the certificate issuer service.
type Service interface {
	// EnsureBundle makes certain that certificate material exists for the
	// domain, issuing it if required.  It returns true if new material
	// was issued.  Existing material is never overwritten.
	EnsureBundle(ctx context.Context) (bool, error)
}
