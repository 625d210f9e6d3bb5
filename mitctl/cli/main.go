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

// Package cli is the main entrypoint for mitctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"
	"gvisor.dev/mitigations/mitctl/cmd"
	"gvisor.dev/mitigations/mitctl/cmd/util"
	"gvisor.dev/mitigations/mitctl/config"
	"gvisor.dev/mitigations/mitctl/flag"
	"gvisor.dev/mitigations/pkg/log"
	"gvisor.dev/mitigations/pkg/mitigation"
)

// versionFlagName is the name of a flag that triggers printing the version.
const versionFlagName = "version"

// version is set at link time with -X.
var version = "devel"

var (
	panicLogFD = flag.Int("panic-log-fd", -1, "file descriptor to write Go's runtime messages.")
)

// Main is the main entrypoint.
func Main() {
	// Register all commands.
	forEachCmd(subcommands.Register)

	// Register with the main command line.
	config.RegisterFlags(flag.CommandLine)

	// Register version flag if it is not already defined.
	if flag.Lookup(versionFlagName) == nil {
		flag.Bool(versionFlagName, false, "show version and exit.")
	}

	// All subcommands must be registered before flag parsing.
	flag.Parse()

	// Are we showing the version?
	if flag.Get(flag.Lookup(versionFlagName).Value).(bool) {
		fmt.Fprintf(os.Stdout, "mitctl version %s\n", version)
		os.Exit(0)
	}

	// Create a new Config from the flags, then apply the config file on top.
	conf, err := config.NewFromFlags(flag.CommandLine)
	if err != nil {
		util.Fatalf("%v", err)
	}
	if conf.ConfigFile != "" {
		if err := conf.LoadFile(flag.CommandLine, conf.ConfigFile); err != nil {
			util.Fatalf("%v", err)
		}
	}

	var errorLogger io.Writer
	if conf.LogFilename != "" {
		// O_APPEND so that successive commands share the same log file.
		var err error
		errorLogger, err = os.OpenFile(conf.LogFilename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			util.Fatalf("error opening log file %q: %v", conf.LogFilename, err)
		}
	}
	util.ErrorLogger = errorLogger

	subcommand := flag.CommandLine.Arg(0)
	if conf.Debug {
		log.SetLevel(log.Debug)
	}

	var emitters log.MultiEmitter
	if errorLogger != nil {
		emitters = append(emitters, newEmitter(conf.LogFormat, errorLogger))
	}
	if len(conf.DebugLog) > 0 {
		f, err := log.OpenFile(conf.DebugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, log.PathOpts{Command: subcommand, Timestamp: time.Now()})
		if err != nil {
			util.Fatalf("error opening debug log file in %q: %v", conf.DebugLog, err)
		}
		emitters = append(emitters, newEmitter(conf.DebugLogFormat, f))
	}
	if conf.AlsoLogToStderr || len(emitters) == 0 {
		emitters = append(emitters, newEmitter(conf.LogFormat, os.Stderr))
	}

	if *panicLogFD > -1 {
		// Go's runtime writes panics to stderr; dup it to the provided FD so
		// they are not lost when stderr is discarded by the caller.
		if err := unix.Dup3(*panicLogFD, int(os.Stderr.Fd()), 0); err != nil {
			util.Fatalf("error dup'ing fd %d to stderr: %v", *panicLogFD, err)
		}
	}

	switch len(emitters) {
	case 1:
		// Use the singular emitter to avoid needless
		// `for` loop overhead when logging to a single place.
		log.SetTarget(emitters[0])
	default:
		log.SetTarget(&emitters)
	}

	// The store is created and locked before any command runs so that every
	// command observes the same, immutable selection.
	store := mitigation.NewStore()
	param := mitigation.NewParam(store)
	if err := param.Set(string(conf.Mitigations)); err != nil {
		util.Fatalf("error applying --mitigations=%q: %v", conf.Mitigations, err)
	}
	param.Lock()

	const delimString = `************** mitctl **************`
	log.Infof(delimString)
	log.Infof("Version %s, %s, %s, PID %d", version, runtime.Version(), runtime.GOARCH, os.Getpid())
	log.Infof("Args: %v", os.Args)
	conf.Log()
	log.Infof("Mitigations: %s (mask %#x)", param, uint64(store.Load()))
	log.Infof(delimString)

	// Call the subcommand and pass in the configuration and the store.
	subcmdCode := subcommands.Execute(context.Background(), conf, store)
	if subcmdCode != subcommands.ExitSuccess {
		log.Debugf("Command %q exited with status: %v", subcommand, subcmdCode)
	}
	os.Exit(int(subcmdCode))
}

// forEachCmd invokes the passed callback for each command supported by mitctl.
func forEachCmd(cb func(cmd subcommands.Command, group string)) {
	// Help and flags commands are generated automatically.
	cb(subcommands.HelpCommand(), "")
	cb(subcommands.FlagsCommand(), "")

	cb(new(cmd.Check), "")
	cb(new(cmd.List), "")
	cb(new(cmd.Parse), "")
}

func newEmitter(format string, logFile io.Writer) log.Emitter {
	switch format {
	case "text":
		return log.GoogleEmitter{Writer: &log.Writer{Next: logFile}}
	case "json":
		return log.JSONEmitter{Writer: &log.Writer{Next: logFile}}
	case "json-k8s":
		return log.K8sJSONEmitter{Writer: &log.Writer{Next: logFile}}
	}
	util.Fatalf("invalid log format %q, must be 'text', 'json', or 'json-k8s'", format)
	panic("unreachable")
}
