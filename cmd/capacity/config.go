// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/capacity/builtin/capacity"
	"github.com/vechain/capacity/node"
)

// fileConfig is the layout of the --config file.
type fileConfig struct {
	Engine  capacity.Config `yaml:"engine"`
	Genesis node.Genesis    `yaml:"genesis"`
}

func defaultFileConfig() *fileConfig {
	return &fileConfig{
		Engine: capacity.DefaultConfig(),
	}
}

// parseConfig decodes r over the defaults. Unknown keys are rejected.
func parseConfig(r io.Reader) (*fileConfig, error) {
	cfg := defaultFileConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, errors.Wrap(err, "engine")
	}
	if cfg.Genesis.EpochLength > cfg.Engine.MaxEpochLength {
		return nil, errors.Errorf("genesis epoch-length %d exceeds max-epoch-length %d",
			cfg.Genesis.EpochLength, cfg.Engine.MaxEpochLength)
	}
	seen := make(map[uint64]bool, len(cfg.Genesis.Targets))
	for _, t := range cfg.Genesis.Targets {
		if seen[uint64(t.ID)] {
			return nil, errors.Errorf("genesis target %d listed twice", t.ID)
		}
		seen[uint64(t.ID)] = true
	}
	return cfg, nil
}

func loadConfigFile(path string) (*fileConfig, error) {
	if path == "" {
		return parseConfig(bytes.NewReader(nil))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return parseConfig(bytes.NewReader(data))
}
