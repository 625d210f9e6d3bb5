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
	"testing"

	"golang.org/x/sys/unix"
)

const residuals = Mask(1) << ClearResiduals

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		name string
		arg  string
		want Mask
	}{
		{name: "auto", arg: "auto", want: Auto},
		{name: "off", arg: "off", want: Off},
		{name: "single", arg: "residuals", want: residuals},
		{name: "auto-disable", arg: "auto,noresiduals", want: Auto &^ residuals},
		{name: "auto-bang", arg: "auto,!residuals", want: Auto &^ residuals},
		{name: "double-negation", arg: "auto,!noresiduals", want: Auto},
		{name: "off-enable", arg: "off,residuals", want: residuals},
		{name: "off-disable", arg: "off,noresiduals", want: Off},
		{name: "first-negated", arg: "noresiduals", want: Off},
		{name: "first-double-negated", arg: "!noresiduals", want: residuals},
		{name: "empty-token", arg: "residuals,,residuals", want: residuals},
		{name: "trailing-comma", arg: "auto,", want: Auto},
		{name: "markers-only", arg: "auto,!,no,!no", want: Auto},
		{name: "last-wins", arg: "auto,noresiduals,residuals", want: Auto},
		{name: "surrounding-space", arg: " \tauto,noresiduals\n", want: Auto &^ residuals},
		{name: "surrounding-vt-ff", arg: "\v\fresiduals\r", want: residuals},
		{name: "empty", arg: "", want: Off},
		{name: "blank", arg: "   ", want: Off},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.arg)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tc.arg, err)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %#x, want %#x", tc.arg, uint64(got), uint64(tc.want))
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, tc := range []struct {
		name      string
		arg       string
		directive string
		index     int
	}{
		{name: "unknown", arg: "bogus", directive: "bogus", index: 0},
		{name: "unknown-after-auto", arg: "auto,bogus", directive: "bogus", index: 1},
		{name: "auto-not-first", arg: "residuals,auto", directive: "auto", index: 1},
		{name: "off-not-first", arg: "residuals,off", directive: "off", index: 1},
		{name: "case-sensitive", arg: "Residuals", directive: "Residuals", index: 0},
		{name: "prefix-only", arg: "resid", directive: "resid", index: 0},
		{name: "inner-space", arg: "auto, residuals", directive: " residuals", index: 1},
		{name: "negated-unknown", arg: "off,!nobogus", directive: "!nobogus", index: 1},
		{name: "double-bang", arg: "!!residuals", directive: "!!residuals", index: 0},
		{name: "unknown-after-valid", arg: "residuals,,bogus", directive: "bogus", index: 2},
		{name: "leading-nbsp", arg: "\u00a0auto", directive: "\u00a0auto", index: 0},
		{name: "leading-nel", arg: "\u0085residuals", directive: "\u0085residuals", index: 0},
		{name: "trailing-ideographic-space", arg: "residuals\u3000", directive: "residuals\u3000", index: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.arg)
			if err == nil {
				t.Fatalf("Parse(%q) = %#x, want error", tc.arg, uint64(got))
			}
			if !errors.Is(err, ErrInvalidDirective) {
				t.Errorf("Parse(%q) error %v is not ErrInvalidDirective", tc.arg, err)
			}
			if !errors.Is(err, unix.EINVAL) {
				t.Errorf("Parse(%q) error %v is not EINVAL", tc.arg, err)
			}
			var de *DirectiveError
			if !errors.As(err, &de) {
				t.Fatalf("Parse(%q) error %v is not a *DirectiveError", tc.arg, err)
			}
			if de.Directive != tc.directive || de.Index != tc.index {
				t.Errorf("Parse(%q) failed on %q at %d, want %q at %d", tc.arg, de.Directive, de.Index, tc.directive, tc.index)
			}
		})
	}
}

func TestParseEquivalence(t *testing.T) {
	for _, pair := range [][2]string{
		{"residuals,,residuals", "residuals"},
		{"auto,!noresiduals", "auto"},
		{"off", "noresiduals"},
		{"auto,!residuals", "auto,noresiduals"},
	} {
		a, err := Parse(pair[0])
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", pair[0], err)
		}
		b, err := Parse(pair[1])
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", pair[1], err)
		}
		if a != b {
			t.Errorf("Parse(%q) = %#x, Parse(%q) = %#x, want equal", pair[0], uint64(a), pair[1], uint64(b))
		}
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"auto",
		"off",
		"residuals",
		"auto,noresiduals",
		"auto,!noresiduals",
		"residuals,,residuals",
		"bogus",
		"residuals,auto",
		"!no",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, arg string) {
		first, err := Parse(arg)
		second, err2 := Parse(arg)
		if first != second || (err == nil) != (err2 == nil) {
			t.Fatalf("Parse(%q) is not deterministic: (%#x, %v) then (%#x, %v)", arg, uint64(first), err, uint64(second), err2)
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidDirective) {
				t.Fatalf("Parse(%q) returned unexpected error %v", arg, err)
			}
			return
		}
		canonical := first.String()
		again, err := Parse(canonical)
		if err != nil {
			t.Fatalf("Parse(%q) of canonical form of %q failed: %v", canonical, arg, err)
		}
		if again != first {
			t.Fatalf("Parse(%q) = %#x, want %#x (from %q)", canonical, uint64(again), uint64(first), arg)
		}
	})
}
