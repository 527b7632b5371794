package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/seitarof/gen-demo/internal/logger"
)

// ParseArgs parses command line arguments into Config. Flags override the
// values of the config file given with --config.
func ParseArgs(args []string) (*Config, error) {
	flags := &Config{}
	var typesRaw, tagsRaw string

	fs := pflag.NewFlagSet("gen-demo", pflag.ContinueOnError)
	fs.StringVarP(&typesRaw, "type", "t", "", "comma-separated type names (default: types marked //derive:demo)")
	fs.StringVarP(&flags.Output, "output", "o", "", "output file name inside each package directory (default "+DefaultOutput+")")
	fs.StringVarP(&flags.ConfigFile, "config", "c", "", "YAML config file")
	fs.StringVar(&tagsRaw, "tags", "", "comma-separated build tags")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "print generated code instead of writing files")
	fs.BoolVarP(&flags.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if flags.ShowVersion {
		return flags, nil
	}

	cfg := &Config{}
	if flags.ConfigFile != "" {
		loaded, err := LoadFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.DryRun = flags.DryRun
	if fs.Changed("type") {
		cfg.Types = splitCommaList(typesRaw)
	}
	if fs.Changed("output") {
		cfg.Output = flags.Output
	}
	if fs.Changed("tags") {
		cfg.Tags = splitCommaList(tagsRaw)
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if fs.NArg() > 0 {
		cfg.Packages = fs.Args()
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if len(c.Packages) == 0 {
		c.Packages = []string{"."}
	}
	c.Output = strings.TrimSpace(c.Output)
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if filepath.IsAbs(c.Output) {
		return fmt.Errorf("--output must be relative to the package directory, got %q", c.Output)
	}
	if !strings.HasSuffix(c.Output, ".go") || strings.HasSuffix(c.Output, "_test.go") {
		return fmt.Errorf("--output must name a non-test .go file, got %q", c.Output)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func splitCommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
