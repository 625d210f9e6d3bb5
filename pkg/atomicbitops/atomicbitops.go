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

// Package atomicbitops provides the atomic cells backing the mitigation mask
// and the parameter write-once latch.
//
// The types here are thin wrappers around sync/atomic. They must not be
// copied after first use; embed or pass them by pointer.
package atomicbitops

import (
	"sync/atomic"

	"gvisor.dev/mitigations/pkg/sync"
)

// Uint64 is an atomic uint64. On 32-bit platforms it must be the first word
// of an allocated struct to keep it 64-bit aligned.
//
// The default value is zero.
//
// Don't add fields to this struct. It is important that it remain the same
// size as its builtin analogue.
type Uint64 struct {
	_     sync.NoCopy
	value uint64
}

// FromUint64 returns an Uint64 initialized to value v.
//
//go:nosplit
func FromUint64(v uint64) Uint64 {
	return Uint64{value: v}
}

// Load is analogous to atomic.LoadUint64.
//
//go:nosplit
func (u *Uint64) Load() uint64 {
	return atomic.LoadUint64(&u.value)
}

// Swap is analogous to atomic.SwapUint64.
//
//go:nosplit
func (u *Uint64) Swap(v uint64) uint64 {
	return atomic.SwapUint64(&u.value, v)
}

// Bool is an atomic Boolean.
//
// It is implemented by a uint32, with value 0 indicating false, and 1
// indicating true. The default value is false.
type Bool struct {
	_     sync.NoCopy
	value uint32
}

// Load is analogous to atomic.LoadBool, if such a thing existed.
//
//go:nosplit
func (b *Bool) Load() bool {
	return atomic.LoadUint32(&b.value) == 1
}

// Store is analogous to atomic.StoreBool, if such a thing existed.
//
//go:nosplit
func (b *Bool) Store(val bool) {
	atomic.StoreUint32(&b.value, boolToUint32(val))
}

//go:nosplit
func boolToUint32(val bool) uint32 {
	if val {
		return 1
	}
	return 0
}
