package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/soypat/dfield"
	"github.com/soypat/dfield/internal/logger"
	"go.uber.org/zap"
)

// ErrUsage is returned by ParseArgs when the arguments are malformed.
var ErrUsage = errors.New("usage: dfield [flags] INPUT")

// CLI holds the command line of a run.
type CLI struct {
	Input       string
	ConfigPath  string
	Interactive bool
	// PrintConfig requests the resolved configuration to be written to stdout.
	PrintConfig bool

	given map[string]string // flags present on the command line.
}

// ParseArgs parses args, not including the program name. Usage and flag
// errors are written to stderr. interactive is the default of the
// -interactive flag, normally whether stdin is a terminal.
func ParseArgs(args []string, stderr io.Writer, interactive bool) (*CLI, error) {
	fs := flag.NewFlagSet("dfield", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, ErrUsage.Error())
		fs.PrintDefaults()
	}
	c := &CLI{given: make(map[string]string)}
	fs.StringVar(&c.ConfigPath, "config", "", "YAML configuration `file` (default ./"+DefaultFile+" if present)")
	fs.BoolVar(&c.Interactive, "interactive", interactive, "prompt for settings not given as flags")
	fs.BoolVar(&c.PrintConfig, "print-config", false, "print the resolved configuration as YAML")
	fs.String("radius", "", "search radius in pixels, preferably a power of two (default 64)")
	fs.String("boundary", "", "edge handling: repeat or clamp (default repeat)")
	fs.String("height", "", "capture height 0-255 or generated (default generated)")
	fs.String("mult", "", "image height multiplier (default 1)")
	fs.String("search", "", "nearest vertex search: spiral or kdtree (default spiral)")
	fs.Int("workers", 0, "distance workers, 0 for one per CPU")
	fs.Bool("obj", false, "export the mesh as <input>_output.obj")
	fs.Bool("stl", false, "export the mesh as <input>_output.stl")
	fs.Int("preview", 0, "write a preview thumbnail at most `N` pixels wide")
	fs.Bool("v", false, "verbose, log debug messages")
	fs.String("log-file", "", "also log to a rotating `file`")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, ErrUsage
	}
	c.Input = fs.Arg(0)
	fs.Visit(func(f *flag.Flag) {
		c.given[f.Name] = f.Value.String()
	})
	return c, nil
}

// Given reports whether the flag name was set on the command line.
func (c *CLI) Given(name string) bool {
	_, ok := c.given[name]
	return ok
}

// ApplyLogging applies the logging flags to cfg. It is separate from
// Apply so the logger can be built before settings are parsed.
func (c *CLI) ApplyLogging(cfg *Config) {
	if v, ok := c.given["v"]; ok && v == "true" {
		cfg.Logging.Level = "debug"
	}
	if path, ok := c.given["log-file"]; ok {
		cfg.Logging.File.Path = path
		if path != "" && cfg.Logging.File.MaxSizeMB == 0 {
			cfg.Logging.File = logger.DefaultFileConfig(path)
		}
	}
}

// Apply overrides cfg with the flags present on the command line. Invalid
// values are replaced by their defaults with a warning.
func (c *CLI) Apply(cfg *Config, log *zap.Logger) {
	if v, ok := c.given["radius"]; ok {
		cfg.Settings.Radius = parseRadius(v, log)
	}
	if v, ok := c.given["boundary"]; ok {
		cfg.Settings.Boundary = parseBoundary(v, log)
	}
	if v, ok := c.given["height"]; ok {
		cfg.Settings.Height = parseHeight(v, log)
	}
	if v, ok := c.given["mult"]; ok {
		cfg.Settings.HeightMult = parseMult(v, log)
	}
	if v, ok := c.given["search"]; ok {
		method, err := dfield.ParseSearchMethod(v)
		if err != nil {
			log.Warn("invalid search method, using spiral", zap.Error(err))
		}
		cfg.Search = method
	}
	if v, ok := c.given["workers"]; ok {
		cfg.Workers, _ = strconv.Atoi(v)
	}
	if v, ok := c.given["obj"]; ok {
		cfg.Export.OBJ = v == "true"
	}
	if v, ok := c.given["stl"]; ok {
		cfg.Export.STL = v == "true"
	}
	if v, ok := c.given["preview"]; ok {
		cfg.Preview, _ = strconv.Atoi(v)
	}
}

// The parse helpers below fall back to the documented default on invalid
// input, as both flags and prompts do.

func parseRadius(s string, log *zap.Logger) int {
	r, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || r <= 0 {
		log.Warn("invalid radius, using default", zap.String("input", s), zap.Int("default", dfield.DefaultRadius))
		return dfield.DefaultRadius
	}
	return r
}

func parseBoundary(s string, log *zap.Logger) dfield.Boundary {
	b, err := dfield.ParseBoundary(s)
	if err != nil {
		log.Warn("invalid boundary, using repeat", zap.String("input", s))
		return dfield.BoundaryRepeat
	}
	return b
}

func parseHeight(s string, log *zap.Logger) dfield.CaptureHeight {
	h, err := dfield.ParseCaptureHeight(s)
	if err != nil {
		log.Warn("invalid capture height, using generated", zap.String("input", s))
		return dfield.GeneratedHeight()
	}
	return h
}

func parseMult(s string, log *zap.Logger) float32 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil || !validMult(float32(f)) {
		log.Warn("invalid height multiplier, using 1", zap.String("input", s))
		return 1
	}
	return float32(f)
}

// StdinIsTerminal reports whether stdin is attached to a character device.
func StdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
