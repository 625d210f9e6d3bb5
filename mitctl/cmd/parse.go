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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"gvisor.dev/mitigations/mitctl/cmd/util"
	"gvisor.dev/mitigations/mitctl/flag"
	"gvisor.dev/mitigations/pkg/log"
	"gvisor.dev/mitigations/pkg/mitigation"
)

// Parse implements subcommands.Command for the "parse" command.
type Parse struct {
	// jsonOutput prints one JSON object per directive.
	jsonOutput bool

	// out is where results are written, os.Stdout if nil.
	out io.Writer
}

// parseResult is the JSON form of a parsed directive.
type parseResult struct {
	Directive string   `json:"directive"`
	Mask      string   `json:"mask"`
	Canonical string   `json:"canonical"`
	Active    []string `json:"active"`
}

// Name implements subcommands.Command.Name.
func (*Parse) Name() string {
	return "parse"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Parse) Synopsis() string {
	return "parse mitigation directives and print the resulting masks"
}

// Usage implements subcommands.Command.Usage.
func (*Parse) Usage() string {
	return `parse [flags] <directive>... - parses each directive without applying it.

` + mitigation.Usage()
}

// SetFlags implements subcommands.Command.SetFlags.
func (p *Parse) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.jsonOutput, "json", false, "print results as JSON, one object per line")
}

// Execute implements subcommands.Command.Execute.
func (p *Parse) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	out := p.out
	if out == nil {
		out = os.Stdout
	}
	var failed []string
	for _, arg := range f.Args() {
		mask, err := mitigation.Parse(arg)
		if err != nil {
			log.Debugf("Directive %q rejected: %v", arg, err)
			failed = append(failed, fmt.Sprintf("%q: %v", arg, err))
			continue
		}
		if err := p.print(out, arg, mask); err != nil {
			return util.Errorf("writing result: %v", err)
		}
	}
	if len(failed) > 0 {
		return util.Errorf("invalid directives: %s", strings.Join(failed, "; "))
	}
	return subcommands.ExitSuccess
}

func (p *Parse) print(out io.Writer, arg string, mask mitigation.Mask) error {
	active := []string{}
	for _, m := range mask.Active() {
		active = append(active, m.String())
	}
	res := parseResult{
		Directive: arg,
		Mask:      fmt.Sprintf("%#x", uint64(mask)),
		Canonical: mask.String(),
		Active:    active,
	}
	if p.jsonOutput {
		return json.NewEncoder(out).Encode(res)
	}
	_, err := fmt.Fprintf(out, "%q: mask=%s canonical=%s active=[%s]\n", res.Directive, res.Mask, res.Canonical, strings.Join(res.Active, ","))
	return err
}
