package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/plotexpr"
	"github.com/zephyrtronium/plotexpr/graph"
)

func main() {
	var (
		cfgname, format string
		xmin, xmax      float64
		width           int
		echo, verbose   bool
	)
	flag.StringVar(&cfgname, "config", "", "YAML file listing functions and the viewport")
	flag.Float64Var(&xmin, "xmin", -10, "left edge of the viewport")
	flag.Float64Var(&xmax, "xmax", 10, "right edge of the viewport")
	flag.IntVar(&width, "width", 800, "canvas width in pixels")
	flag.StringVar(&format, "fmt", "csv", "output format, csv or json")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&verbose, "v", false, "log debug messages")
	flag.Parse()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := loadConfig(cfgname)
	if err != nil {
		log.Fatal().Err(err).Str("config", cfgname).Msg("couldn't load config")
	}
	// Flags given explicitly override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "xmin":
			cfg.Viewport.XMin = xmin
		case "xmax":
			cfg.Viewport.XMax = xmax
		case "width":
			cfg.Width = width
		case "fmt":
			cfg.Format = format
		}
	})
	cfg.addExprs(flag.Args())
	if len(cfg.Functions) == 0 {
		log.Fatal().Msg("no functions to plot")
	}
	req := cfg.request()
	if err := req.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad viewport")
	}
	log.Debug().
		Int("functions", len(cfg.Functions)).
		Float64("xmin", req.Viewport.XMin).
		Float64("xmax", req.Viewport.XMax).
		Int("width", req.PixelWidth).
		Msg("config loaded")

	ctx := context.Background()
	g := graph.New(graph.WithLogger(log))
	defer g.Close()
	for _, f := range cfg.Functions {
		if echo {
			if a, err := plotexpr.Parse(f.Expr); err == nil {
				fmt.Fprintf(os.Stderr, "%s : %v\n", f.ID, a)
			}
		}
		// Functions that don't parse still get an (empty) entry in the output.
		if err := g.Set(ctx, f.ID, f.Expr); err != nil {
			log.Error().Err(err).Str("function", f.ID).Str("expr", f.Expr).Msg("invalid function")
		}
	}

	bufs, err := g.Sample(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("sampling failed")
	}
	ids := g.IDs()
	switch cfg.Format {
	case "csv":
		err = writeCSV(os.Stdout, ids, bufs)
	case "json":
		err = writeJSON(os.Stdout, ids, bufs)
	default:
		log.Fatal().Str("format", cfg.Format).Msg("unknown output format")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("writing output")
	}
}

func writeCSV(w io.Writer, ids []string, bufs map[string][]plotexpr.Point) error {
	c := csv.NewWriter(w)
	if err := c.Write([]string{"id", "x", "y"}); err != nil {
		return err
	}
	for _, id := range ids {
		for _, p := range bufs[id] {
			rec := []string{id, strconv.FormatFloat(p.X, 'g', -1, 64), strconv.FormatFloat(p.Y, 'g', -1, 64)}
			if err := c.Write(rec); err != nil {
				return err
			}
		}
	}
	c.Flush()
	return c.Error()
}

// jsonPoint is a Point whose y is null where the function is undefined, since
// JSON has no NaN or infinity.
type jsonPoint struct {
	X float64  `json:"x"`
	Y *float64 `json:"y"`
}

func writeJSON(w io.Writer, ids []string, bufs map[string][]plotexpr.Point) error {
	out := make(map[string][]jsonPoint, len(ids))
	for _, id := range ids {
		pts := make([]jsonPoint, len(bufs[id]))
		for i, p := range bufs[id] {
			pts[i].X = p.X
			if !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) {
				y := p.Y
				pts[i].Y = &y
			}
		}
		out[id] = pts
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}
