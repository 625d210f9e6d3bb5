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

// Package cmd holds implementations of the mitctl commands.
package cmd

import (
	"gvisor.dev/mitigations/mitctl/config"
	"gvisor.dev/mitigations/pkg/mitigation"
)

// commandArgs extracts the arguments passed by the command line driver to
// every Execute method: the parsed configuration and the store holding the
// configured mitigations.
func commandArgs(args []any) (*config.Config, *mitigation.Store) {
	return args[0].(*config.Config), args[1].(*mitigation.Store)
}
