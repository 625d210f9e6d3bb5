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
	"text/tabwriter"

	"github.com/google/subcommands"
	"gvisor.dev/mitigations/mitctl/flag"
	"gvisor.dev/mitigations/pkg/mitigation"
)

// List implements subcommands.Command for the "list" command.
type List struct {
	// out is where the table is written, os.Stdout if nil.
	out io.Writer
}

// Name implements subcommands.Command.Name.
func (*List) Name() string {
	return "list"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*List) Synopsis() string {
	return "list known mitigations and whether they are active"
}

// Usage implements subcommands.Command.Usage.
func (*List) Usage() string {
	return `list - lists every known mitigation, its bit, whether it is active under --mitigations, and what it does.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*List) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (l *List) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	_, store := commandArgs(args)

	out := l.out
	if out == nil {
		out = os.Stdout
	}
	mask := store.Load()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "BIT\tNAME\tACTIVE\tDESCRIPTION\n")
	for _, m := range mitigation.Mitigations() {
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", uint(m), m, mask.Has(m), m.Help())
	}
	w.Flush()
	return subcommands.ExitSuccess
}
