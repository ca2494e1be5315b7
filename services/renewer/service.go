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

// Package renewer keeps the certificate material fresh by invoking an
// external renewal process on a schedule.
package renewer

import (
	"context"

	"github.com/hanguru/handout/core"
)

// Service is the certificate renewer service.
type Service interface {
	// Renew performs a single renewal attempt and reports its outcome.
	// A failing renewal command is a normal outcome, not an error.
	Renew(ctx context.Context) *core.RenewalRecord
}
