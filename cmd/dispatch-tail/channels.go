package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var errNoChannels = errors.New("no channels given: use --channel or --channels-file")

// channelsFile is the YAML layout accepted by --channels-file:
//
//	channels:
//	  - alerts
//	  - orders
type channelsFile struct {
	Channels []string `yaml:"channels"`
}

func loadChannelsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}

	var f channelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse channels file %s: %w", path, err)
	}
	return f.Channels, nil
}

// mergeChannels trims, dedupes and sorts channel names from all sources.
func mergeChannels(sources ...[]string) ([]string, error) {
	var out []string
	for _, src := range sources {
		for _, name := range src {
			name = strings.TrimSpace(name)
			if name == "" || slices.Contains(out, name) {
				continue
			}
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, errNoChannels
	}
	slices.Sort(out)
	return out, nil
}
