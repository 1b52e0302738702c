//
// params.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"os"

	"github.com/markkurossi/okvs/okvs"
	"gopkg.in/yaml.v2"
)

// ParamsFile holds the parameters that can be set from a YAML
// parameter file. Zero values keep the command line values.
type ParamsFile struct {
	L        int     `yaml:"l"`
	Epsilon  float64 `yaml:"epsilon"`
	Lambda   int     `yaml:"lambda"`
	Peeler   string  `yaml:"peeler"`
	Workers  int     `yaml:"workers"`
	Attempts int     `yaml:"attempts"`
}

// ParseParams parses the YAML parameter data.
func ParseParams(data []byte) (*ParamsFile, error) {
	pf := new(ParamsFile)
	if err := yaml.UnmarshalStrict(data, pf); err != nil {
		return nil, fmt.Errorf("invalid parameter file: %w", err)
	}
	return pf, nil
}

// LoadParams reads the YAML parameter file.
func LoadParams(file string) (*ParamsFile, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ParseParams(data)
}

// Apply overrides the params, workers, and attempts with the values
// set in the parameter file.
func (pf *ParamsFile) Apply(params *okvs.Params, workers, attempts *int) error {
	if pf.L != 0 {
		params.L = pf.L
	}
	if pf.Epsilon != 0 {
		params.Epsilon = pf.Epsilon
	}
	if pf.Lambda != 0 {
		params.Lambda = pf.Lambda
	}
	if len(pf.Peeler) > 0 {
		kind, err := okvs.ParsePeelerKind(pf.Peeler)
		if err != nil {
			return err
		}
		params.Peeler = kind
	}
	if pf.Workers != 0 {
		*workers = pf.Workers
	}
	if pf.Attempts != 0 {
		*attempts = pf.Attempts
	}
	return params.Validate()
}
