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

// Package mitigation selects which security mitigations are active.
//
// The selection is written as a comma-separated list of directives. The first
// directive may be one of the base keywords "auto" (every mitigation the
// platform requires, the default) or "off" (none). Every other directive names
// a mitigation, optionally prefixed with '!' and/or "no" to disable it instead
// of enabling it. For example, "auto,noresiduals" enables everything except
// clearing residuals, and "residuals" enables only clearing residuals.
//
// A parsed selection is a Mask. The Store publishes the current Mask for
// lock-free reads; it is only ever replaced by a successful parse.
package mitigation

import (
	"fmt"
	"strings"
)

// Mitigation identifies a single security mitigation. The value is its bit
// position in a Mask; values are never reused for a different meaning.
type Mitigation uint

const (
	// ClearResiduals clears all thread-local registers between contexts.
	ClearResiduals Mitigation = iota

	// numMitigations must be last.
	numMitigations
)

// Mask needs one bit per mitigation.
var _ = [64 - numMitigations]struct{}{}

// mitigationInfo is indexed by Mitigation. Adding a mitigation only requires
// a new constant above and an entry here.
var mitigationInfo = [numMitigations]struct {
	name string
	help string
}{
	ClearResiduals: {
		name: "residuals",
		help: "clear all thread-local registers between contexts",
	},
}

// byName maps directive names to mitigations.
var byName = func() map[string]Mitigation {
	m := make(map[string]Mitigation, numMitigations)
	for i := range mitigationInfo {
		m[mitigationInfo[i].name] = Mitigation(i)
	}
	return m
}()

// Lookup returns the mitigation with the given directive name. Names are
// case-sensitive.
func Lookup(name string) (Mitigation, bool) {
	m, ok := byName[name]
	return m, ok
}

// Mitigations returns all known mitigations in bit order.
func Mitigations() []Mitigation {
	ms := make([]Mitigation, 0, numMitigations)
	for i := Mitigation(0); i < numMitigations; i++ {
		ms = append(ms, i)
	}
	return ms
}

// String implements fmt.Stringer.String.
func (m Mitigation) String() string {
	if m >= numMitigations {
		return fmt.Sprintf("Mitigation(%d)", uint(m))
	}
	return mitigationInfo[m].name
}

// Help returns a one-line description of the mitigation.
func (m Mitigation) Help() string {
	if m >= numMitigations {
		return ""
	}
	return mitigationInfo[m].help
}

// Bit returns the Mask with only m set.
func (m Mitigation) Bit() Mask {
	return Mask(1) << m
}

// Mask is a set of active mitigations. Bit i is set iff Mitigation(i) is
// active.
type Mask uint64

const (
	// Auto enables every mitigation the platform requires. It is the default.
	Auto Mask = ^Mask(0)

	// Off disables all mitigations.
	Off Mask = 0
)

// known is the set of bits that belong to a defined mitigation.
const known Mask = (Mask(1) << numMitigations) - 1

// Has returns true if m is active in the mask.
func (mask Mask) Has(m Mitigation) bool {
	return mask&m.Bit() != 0
}

// With returns a copy of the mask with m set if enable is true, or cleared
// otherwise.
func (mask Mask) With(m Mitigation, enable bool) Mask {
	if enable {
		return mask | m.Bit()
	}
	return mask &^ m.Bit()
}

// Active returns the known mitigations set in the mask.
func (mask Mask) Active() []Mitigation {
	var ms []Mitigation
	for _, m := range Mitigations() {
		if mask.Has(m) {
			ms = append(ms, m)
		}
	}
	return ms
}

// String returns the canonical directive for the mask. Parsing it yields the
// mask again for every mask Parse can return.
func (mask Mask) String() string {
	switch {
	case mask == Off:
		return "off"
	case mask|known == Auto:
		parts := []string{"auto"}
		for _, m := range Mitigations() {
			if !mask.Has(m) {
				parts = append(parts, "no"+m.String())
			}
		}
		return strings.Join(parts, ",")
	case mask&^known == 0:
		var parts []string
		for _, m := range mask.Active() {
			parts = append(parts, m.String())
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%#x", uint64(mask))
	}
}

// Usage describes the directive syntax and the known mitigations.
func Usage() string {
	var b strings.Builder
	b.WriteString(`Selectively enable security mitigations.

  auto -- enables all mitigations required for the platform [default]
  off  -- disables all mitigations

Individual mitigations can be enabled by passing a comma-separated string,
e.g. residuals to enable only clearing residuals or auto,noresiduals to
disable only the clear residual mitigation. Either '!' or 'no' may be used
to switch from enabling the mitigation to disabling it.

Mitigations:
`)
	for _, m := range Mitigations() {
		fmt.Fprintf(&b, "  %s -- %s\n", m, m.Help())
	}
	return b.String()
}
