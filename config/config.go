// Package config loads rrdbcore's on-disk YAML configuration: where the
// WAL and catalog live, and which host/port the wire front-end binds to.
// Grounded on the teacher's (database/database.go) YAML-decoding idiom,
// applied to server configuration instead of a schema-diff generator's
// options.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// DataPaths is the top-level config file shape. Every field has a zero
// value default so a config file only needs to override what it wants to
// change — the same "merge on top of defaults" idiom the teacher uses for
// GeneratorConfig.
type DataPaths struct {
	// BaseDirectory is the root rrdb stores catalog and table data under
	// (original_source/src/lib/executor/util.rs's `get_base_path`, which
	// reads the RRDB_BASE_PATH environment variable; here it's a config
	// field instead, with the env var kept as a fallback in Load).
	BaseDirectory string `yaml:"base_directory"`

	// WALDirectory and WALExtension name where segment files are written
	// and what they're named (spec.md §6's "{seq:08X}.{configured
	// extension}").
	WALDirectory string `yaml:"wal_directory"`
	WALExtension string `yaml:"wal_extension"`
	WALPageSize  int    `yaml:"wal_page_size"`

	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Defaults mirrors main.rs's DEFAULT_HOST/DEFAULT_PORT fallback applied
// when a flag or config field is unset.
func Defaults() DataPaths {
	return DataPaths{
		BaseDirectory: "./rrdb-data",
		WALDirectory:  "./rrdb-data/wal",
		WALExtension:  "wal",
		WALPageSize:   8192,
		Host:          "127.0.0.1",
		Port:          5432,
	}
}

// Load reads a YAML config file and merges it on top of Defaults; an empty
// path returns the defaults without reading a file, matching
// database/database.go's ParseGeneratorConfig short-circuit on "", except
// that RRDB_BASE_PATH, when set, replaces BaseDirectory. The variable is
// not consulted when a path is given.
func Load(path string) (DataPaths, error) {
	paths := Defaults()
	if path == "" {
		if base, ok := os.LookupEnv("RRDB_BASE_PATH"); ok {
			paths.BaseDirectory = base
		}
		return paths, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return DataPaths{}, fmt.Errorf("config: reading %q: %w", path, err)
	}

	var override DataPaths
	if err := yaml.Unmarshal(buf, &override); err != nil {
		return DataPaths{}, fmt.Errorf("config: parsing %q: %w", path, err)
	}

	return merge(paths, override), nil
}

func merge(base, override DataPaths) DataPaths {
	if override.BaseDirectory != "" {
		base.BaseDirectory = override.BaseDirectory
	}
	if override.WALDirectory != "" {
		base.WALDirectory = override.WALDirectory
	}
	if override.WALExtension != "" {
		base.WALExtension = override.WALExtension
	}
	if override.WALPageSize != 0 {
		base.WALPageSize = override.WALPageSize
	}
	if override.Host != "" {
		base.Host = override.Host
	}
	if override.Port != 0 {
		base.Port = override.Port
	}
	return base
}
