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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"gvisor.dev/mitigations/mitctl/flag"
)

// ReadFile reads flag values from a config file. The format is chosen by
// extension: .toml, or .yaml/.yml. Keys are flag names and values must be
// scalars.
func ReadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	raw := map[string]any{}
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing TOML config %q: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML config %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension %q, want .toml, .yaml or .yml", ext)
	}

	values := make(map[string]string, len(raw))
	for name, v := range raw {
		s, err := scalarString(v)
		if err != nil {
			return nil, fmt.Errorf("config %q, key %q: %w", path, name, err)
		}
		values[name] = s
	}
	return values, nil
}

func scalarString(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// LoadFile applies the values of the config file at path to c using
// Override, in key order. Flags that were set explicitly on flagSet are left
// alone so that the command line takes precedence.
func (c *Config) LoadFile(flagSet *flag.FlagSet, path string) error {
	values, err := ReadFile(path)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if flag.IsSet(flagSet, name) {
			continue
		}
		if err := c.Override(flagSet, name, values[name]); err != nil {
			return fmt.Errorf("config %q: %w", path, err)
		}
	}
	return nil
}
