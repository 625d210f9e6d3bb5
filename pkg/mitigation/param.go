// Copyright 2026 The gVisor Authors.
//
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

package mitigation

import (
	"errors"
	"fmt"
	"time"

	"gvisor.dev/mitigations/pkg/atomicbitops"
	"gvisor.dev/mitigations/pkg/log"
	"gvisor.dev/mitigations/pkg/sync"
)

// ErrReadOnly is returned when setting a Param after Lock.
var ErrReadOnly = errors.New("mitigations are read-only after setup")

// ErrNoStore is returned when setting a Param that has no Store, such as the
// zero value.
var ErrNoStore = errors.New("mitigations parameter has no store")

// rejectLogInterval bounds how often rejected values are logged.
const rejectLogInterval = time.Second

// Param is the user-settable mitigations value. It implements flag.Getter so
// it can be registered directly on a flag set.
//
// Set is the only writer of the Store it wraps. Writers are serialized, and
// once Lock is called the value can no longer be changed.
//
// A Param must be created with NewParam. Set on the zero value fails with
// ErrNoStore.
type Param struct {
	store *Store

	// rejected logs values that failed to parse.
	rejected log.Logger

	// locked is set by Lock. It is read without mu by Locked.
	locked atomicbitops.Bool

	// mu serializes writers and protects value.
	mu sync.Mutex

	// value is the last successfully applied string.
	value string
}

// NewParam returns a Param that applies values to s. Its initial value is
// "auto", matching NewStore.
//
// Rejected values are logged through the global logger as configured when
// NewParam is called, so callers should call log.SetTarget first.
func NewParam(s *Store) *Param {
	return &Param{
		store:    s,
		rejected: log.BasicRateLimitedLogger(rejectLogInterval),
		value:    autoKeyword,
	}
}

// Set implements flag.Value.Set. The store is only updated if arg parses
// successfully, in which case arg also becomes the value returned by String.
func (p *Param) Set(arg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.locked.Load() {
		return fmt.Errorf("setting mitigations to %q: %w", arg, ErrReadOnly)
	}
	if p.store == nil {
		return fmt.Errorf("setting mitigations to %q: %w", arg, ErrNoStore)
	}
	if _, err := p.store.Update(arg); err != nil {
		p.rejected.Warningf("Rejected mitigations %q: %v", arg, err)
		return err
	}
	p.value = arg
	return nil
}

// String implements flag.Value.String. It returns the string last applied
// with Set.
func (p *Param) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Get implements flag.Getter.Get. It returns the current Mask.
func (p *Param) Get() any {
	if p.store == nil {
		return Auto
	}
	return p.store.Load()
}

// Lock makes the Param read-only. Subsequent calls to Set fail with
// ErrReadOnly.
func (p *Param) Lock() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked.Store(true)
}

// Locked returns true if Lock has been called.
func (p *Param) Locked() bool {
	return p.locked.Load()
}
