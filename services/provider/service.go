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

// Package provider supplies the current certificate bundle for the
// configured domain.
package provider

import (
	"context"

	"github.com/hanguru/handout/core"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when the certificate material cannot be obtained.
var ErrNotFound = errors.New("certificate not found")

// Service is the certificate provider service.
type Service interface {
	// Bundle returns the current certificate bundle for the domain.
	// The material is re-read on every call so the latest renewal is
	// always reflected.
	Bundle(ctx context.Context) (*core.Bundle, error)
}
