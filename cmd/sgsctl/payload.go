//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlpoint - one day as a YAML file might carry it; missing statistics are derived by the server
type yamlpoint struct {
	X                  string   `yaml:"x,omitempty" json:"x,omitempty"`
	DayNumber          *int     `yaml:"dayNumber,omitempty" json:"dayNumber,omitempty"`
	Y                  float64  `yaml:"y" json:"y"`
	Accumulate         *float64 `yaml:"accumulate,omitempty" json:"accumulate,omitempty"`
	Average            *float64 `yaml:"average,omitempty" json:"average,omitempty"`
	MatureCount        *int     `yaml:"matureCount,omitempty" json:"matureCount,omitempty"`
	TotalNumberOfCards *int     `yaml:"totalNumberOfCards,omitempty" json:"totalNumberOfCards,omitempty"`
}

// yamlrun - "label: ...\npoints: [...]"; a bare sequence of points is accepted too
type yamlrun struct {
	Label  string      `yaml:"label"`
	Points []yamlpoint `yaml:"points"`
}

var errEmptyInput = errors.New("no simulation output to send")

// isyaml - by extension, or by sniffing: anything that opens like JSON goes to the server as JSON
func isyaml(name string, b []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	case ".json":
		return false
	}
	t := bytes.TrimSpace(b)
	return !bytes.HasPrefix(t, []byte("[")) && !bytes.HasPrefix(t, []byte("{"))
}

// yamlpayload - convert YAML simulator output into the '[label, points]' JSON the server takes
func yamlpayload(b []byte, label string) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return "", fmt.Errorf("reading yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return "", errEmptyInput
	}

	var run yamlrun
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&run.Points); err != nil {
			return "", fmt.Errorf("reading yaml points: %w", err)
		}
	case yaml.MappingNode:
		if err := root.Decode(&run); err != nil {
			return "", fmt.Errorf("reading yaml run: %w", err)
		}
	default:
		return "", fmt.Errorf("yaml must hold a run or a list of points, not a scalar")
	}

	if label != "" {
		run.Label = label
	}
	if run.Points == nil {
		run.Points = []yamlpoint{}
	}

	js, err := json.Marshal([]interface{}{run.Label, run.Points})
	if err != nil {
		return "", err
	}
	return string(js), nil
}

// relabel - swap the label of a JSON payload; the rest is passed through untouched for the server to judge
func relabel(b []byte, label string) (string, error) {
	if label == "" {
		return string(bytes.TrimSpace(b)), nil
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil || len(parts) != 2 {
		return "", fmt.Errorf("--label needs a '[label, points]' payload")
	}
	l, err := json.Marshal(label)
	if err != nil {
		return "", err
	}
	parts[0] = l
	js, err := json.Marshal(parts)
	return string(js), err
}
