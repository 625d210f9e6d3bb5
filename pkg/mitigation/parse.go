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
	"strings"

	"golang.org/x/sys/unix"
)

const (
	// autoKeyword and offKeyword are only recognized as the first directive.
	autoKeyword = "auto"
	offKeyword  = "off"

	// space is the ASCII whitespace trimmed from around the whole list.
	space = " \t\n\v\f\r"
)

// ErrInvalidDirective is matched by every error returned from Parse.
var ErrInvalidDirective = errors.New("invalid mitigation directive")

// DirectiveError reports a directive that does not name a known mitigation.
// It matches both ErrInvalidDirective and unix.EINVAL with errors.Is.
type DirectiveError struct {
	// Directive is the offending directive as written.
	Directive string

	// Index is the position of the directive in the comma-separated list.
	Index int
}

// Error implements error.Error.
func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%v: unknown mitigation %q at position %d", ErrInvalidDirective, e.Directive, e.Index)
}

// Is implements errors.Is.
func (e *DirectiveError) Is(target error) bool {
	return target == ErrInvalidDirective || target == unix.EINVAL
}

// Parse converts a comma-separated list of directives into a Mask.
//
// Surrounding ASCII whitespace of arg is ignored; whitespace inside the list
// and non-ASCII spaces are not.
// If the first directive is "auto" the result starts from Auto, otherwise it
// starts from Off and an "off" first directive is consumed. Each following
// directive sets or clears one mitigation. A leading '!' and then a leading
// "no" each invert the directive, so "!noresiduals" enables. Empty directives
// are ignored. Any unknown directive fails the whole parse.
func Parse(arg string) (Mask, error) {
	mask := Auto
	for i, tok := range strings.Split(strings.Trim(arg, space), ",") {
		enable := true

		if i == 0 {
			if tok == autoKeyword {
				mask = Auto
				continue
			}

			mask = Off
			if tok == offKeyword {
				continue
			}
		}

		name := tok
		if strings.HasPrefix(name, "!") {
			enable = !enable
			name = name[1:]
		}
		if strings.HasPrefix(name, "no") {
			enable = !enable
			name = name[2:]
		}
		if name == "" {
			continue
		}

		m, ok := Lookup(name)
		if !ok {
			return 0, &DirectiveError{Directive: tok, Index: i}
		}
		mask = mask.With(m, enable)
	}
	return mask, nil
}
