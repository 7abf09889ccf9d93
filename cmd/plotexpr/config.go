package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/plotexpr"
)

// config is the contents of a -config file.
type config struct {
	Functions []function `yaml:"functions"`
	Viewport  viewport   `yaml:"viewport"`
	Width     int        `yaml:"width"`
	Format    string     `yaml:"format"`
}

type function struct {
	ID   string `yaml:"id"`
	Expr string `yaml:"expr"`
}

type viewport struct {
	XMin float64 `yaml:"xmin"`
	XMax float64 `yaml:"xmax"`
}

func defaultConfig() config {
	return config{
		Viewport: viewport{XMin: -10, XMax: 10},
		Width:    800,
		Format:   "csv",
	}
}

// readConfig decodes a config over the defaults. Unknown keys are an error.
func readConfig(r io.Reader) (config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return config{}, fmt.Errorf("decoding config: %w", err)
	}
	seen := make(map[string]bool, len(cfg.Functions))
	for i, f := range cfg.Functions {
		if f.ID == "" {
			cfg.Functions[i].ID = fmt.Sprintf("f%d", i+1)
		}
		if seen[cfg.Functions[i].ID] {
			return config{}, fmt.Errorf("duplicate function id %q", cfg.Functions[i].ID)
		}
		seen[cfg.Functions[i].ID] = true
	}
	return cfg, nil
}

// addExprs appends functions for expressions given on the command line. Each
// gets the first id of the form fN that the config doesn't already use.
func (c *config) addExprs(srcs []string) {
	used := make(map[string]bool, len(c.Functions)+len(srcs))
	for _, f := range c.Functions {
		used[f.ID] = true
	}
	n := 1
	for _, src := range srcs {
		id := fmt.Sprintf("f%d", n)
		for used[id] {
			n++
			id = fmt.Sprintf("f%d", n)
		}
		used[id] = true
		c.Functions = append(c.Functions, function{ID: id, Expr: src})
	}
}

func loadConfig(name string) (config, error) {
	if name == "" {
		return defaultConfig(), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return config{}, err
	}
	defer f.Close()
	return readConfig(f)
}

func (c config) request() plotexpr.SampleRequest {
	return plotexpr.SampleRequest{
		PixelWidth: c.Width,
		Viewport:   plotexpr.Viewport{XMin: c.Viewport.XMin, XMax: c.Viewport.XMax},
	}
}
