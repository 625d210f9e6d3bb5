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
	"gvisor.dev/mitigations/pkg/atomicbitops"
	"gvisor.dev/mitigations/pkg/log"
)

// Store holds the current Mask.
//
// Reads are single atomic loads and never block, so Load and Enabled may be
// called from hot paths by any number of goroutines. The mask is only
// replaced by Update after its argument parsed successfully; readers observe
// either the old or the new mask, never a mix.
//
// Update performs no locking: concurrent writers must be serialized by the
// caller (see Param).
//
// The zero value has every mitigation disabled; use NewStore.
type Store struct {
	// mask must remain the first field for 64-bit alignment.
	mask atomicbitops.Uint64
}

// NewStore returns a Store holding Auto.
func NewStore() *Store {
	return &Store{mask: atomicbitops.FromUint64(uint64(Auto))}
}

// Load returns the current mask.
func (s *Store) Load() Mask {
	return Mask(s.mask.Load())
}

// Enabled returns true if m is active in the current mask.
func (s *Store) Enabled(m Mitigation) bool {
	return s.Load().Has(m)
}

// ClearResiduals returns true if thread-local registers must be cleared
// between contexts.
func (s *Store) ClearResiduals() bool {
	return s.Enabled(ClearResiduals)
}

// Update parses arg and, if it is valid, replaces the current mask with the
// result. On error the current mask is left unchanged.
func (s *Store) Update(arg string) (Mask, error) {
	mask, err := Parse(arg)
	if err != nil {
		return 0, err
	}
	if old := s.replace(mask); old != mask {
		log.Debugf("Mitigations changed from %q to %q", old, mask)
	}
	return mask, nil
}

// replace publishes mask and returns the previous one.
func (s *Store) replace(mask Mask) Mask {
	return Mask(s.mask.Swap(uint64(mask)))
}
