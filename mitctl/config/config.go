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

// Package config provides basic infrastructure to set configuration settings
// for mitctl. Each setting that can be changed from outside (flags, config
// file) must be added to the Config struct with a `flag` tag naming the flag
// that sets it.
package config

import (
	"fmt"
	"reflect"

	"gvisor.dev/mitigations/pkg/log"
	"gvisor.dev/mitigations/pkg/mitigation"
)

// Config holds configuration that is not part of the mitigation directive
// grammar itself.
type Config struct {
	// Mitigations is the mitigation directive applied at startup.
	Mitigations Directive `flag:"mitigations"`

	// ConfigFile is the path of a TOML or YAML file holding flag values.
	ConfigFile string `flag:"config"`

	// Debug indicates that debug logging should be enabled.
	Debug bool `flag:"debug"`

	// LogFilename is the filename to log to, if not empty.
	LogFilename string `flag:"log"`

	// LogFormat is the log format.
	LogFormat string `flag:"log-format"`

	// DebugLog is the path to log debug information to, if not empty.
	DebugLog string `flag:"debug-log"`

	// DebugLogFormat is the log format for debug.
	DebugLogFormat string `flag:"debug-log-format"`

	// AlsoLogToStderr allows to send log messages to stderr.
	AlsoLogToStderr bool `flag:"alsologtostderr"`

	// AllowFlagOverride allows config file values and Override to change
	// flags that are not in the override allowlist.
	AllowFlagOverride bool `flag:"allow-flag-override"`
}

// Log logs important aspects of the configuration to the given log function.
func (c *Config) Log() {
	log.Infof("Config:")
	obj := reflect.ValueOf(c).Elem()
	st := obj.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if name, ok := f.Tag.Lookup("flag"); ok {
			log.Infof("  %s: %s", name, getVal(obj.Field(i)))
		}
	}
}

func (c *Config) validate() error {
	if _, err := mitigation.Parse(string(c.Mitigations)); err != nil {
		return fmt.Errorf("invalid --mitigations: %w", err)
	}
	if err := validateLogFormat(c.LogFormat); err != nil {
		return fmt.Errorf("invalid --log-format: %w", err)
	}
	if err := validateLogFormat(c.DebugLogFormat); err != nil {
		return fmt.Errorf("invalid --debug-log-format: %w", err)
	}
	return nil
}

func validateLogFormat(format string) error {
	switch format {
	case "text", "json", "json-k8s":
		return nil
	default:
		return fmt.Errorf("unknown log format %q, want one of text, json, json-k8s", format)
	}
}

// Directive is a mitigation directive string. Values are checked with
// mitigation.Parse when set.
type Directive string

func directivePtr(v Directive) *Directive {
	return &v
}

// Set implements flag.Value.Set.
func (d *Directive) Set(v string) error {
	if _, err := mitigation.Parse(v); err != nil {
		return err
	}
	*d = Directive(v)
	return nil
}

// Get implements flag.Getter.Get.
func (d *Directive) Get() any {
	return *d
}

// String implements flag.Value.String.
func (d Directive) String() string {
	return string(d)
}
