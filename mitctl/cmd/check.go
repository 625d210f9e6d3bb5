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
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"gvisor.dev/mitigations/mitctl/cmd/util"
	"gvisor.dev/mitigations/mitctl/flag"
	"gvisor.dev/mitigations/pkg/mitigation"
)

// Check implements subcommands.Command for the "check" command.
type Check struct {
	// quiet suppresses output; only the exit status reports the result.
	quiet bool

	// out is where results are written, os.Stdout if nil.
	out io.Writer
}

// Name implements subcommands.Command.Name.
func (*Check) Name() string {
	return "check"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Check) Synopsis() string {
	return "check whether mitigations are active"
}

// Usage implements subcommands.Command.Usage.
func (*Check) Usage() string {
	return `check [flags] <mitigation>... - exits successfully iff every named mitigation is active under --mitigations.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (c *Check) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.quiet, "quiet", false, "do not print anything, only set the exit status")
}

// Execute implements subcommands.Command.Execute.
func (c *Check) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	_, store := commandArgs(args)

	ms := make([]mitigation.Mitigation, 0, f.NArg())
	for _, name := range f.Args() {
		m, ok := mitigation.Lookup(name)
		if !ok {
			util.Errorf("unknown mitigation %q", name)
			return subcommands.ExitUsageError
		}
		ms = append(ms, m)
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	status := subcommands.ExitSuccess
	for _, m := range ms {
		active := store.Enabled(m)
		if !active {
			status = subcommands.ExitFailure
		}
		if !c.quiet {
			fmt.Fprintf(out, "%s: %s\n", m, activeString(active))
		}
	}
	return status
}

func activeString(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
