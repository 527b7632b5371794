package cli

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/generator"
	"github.com/seitarof/gen-demo/internal/logger"
	"github.com/seitarof/gen-demo/internal/matcher"
	"github.com/seitarof/gen-demo/internal/parser"
	"github.com/seitarof/gen-demo/internal/synth"
)

// Runner orchestrates parser/matcher/synth/generator layers.
type Runner interface {
	Run(ctx context.Context, cfg *Config) error
}

// Synthesizer builds the constructors of one subject type.
type Synthesizer interface {
	Synthesize(td decl.TypeDeclaration) ([]synth.Constructor, error)
}

type runnerImpl struct {
	parser    parser.Parser
	matcher   matcher.SubjectMatcher
	synth     Synthesizer
	generator generator.Generator
	log       logger.Logger
}

// NewRunner creates a default runner implementation.
func NewRunner(
	p parser.Parser,
	m matcher.SubjectMatcher,
	s Synthesizer,
	g generator.Generator,
	log logger.Logger,
) Runner {
	if log == nil {
		log = logger.Discard()
	}
	return &runnerImpl{
		parser:    p,
		matcher:   m,
		synth:     s,
		generator: g,
		log:       log,
	}
}

// Run generates one file per package. Packages are processed concurrently;
// the first failing package stops the run and nothing is written for it.
func (r *runnerImpl) Run(ctx context.Context, cfg *Config) error {
	pkgs, err := r.parser.Load(ctx, cfg.Packages...)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	var (
		mu    sync.Mutex
		found = map[string]bool{}
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, pkg := range pkgs {
		eg.Go(func() error {
			subjects, err := r.runPackage(ctx, cfg, pkg)
			mu.Lock()
			for _, name := range subjects {
				found[name] = true
			}
			mu.Unlock()
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var missing []string
	for _, name := range cfg.Types {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("type %s not found in %s", strings.Join(missing, ", "), strings.Join(cfg.Packages, " "))
	}
	return nil
}

// runPackage returns the names of the subject types it handled.
func (r *runnerImpl) runPackage(ctx context.Context, cfg *Config, pkg *parser.Package) ([]string, error) {
	subjects, _ := r.matcher.Match(pkg, cfg.Types)
	names := make([]string, 0, len(subjects))
	for _, td := range subjects {
		names = append(names, td.Name)
	}
	if len(subjects) == 0 {
		if len(cfg.Types) == 0 {
			r.log.Warn("no types marked "+matcher.Marker, "pkg", pkg.Path)
		}
		return names, nil
	}

	file := generator.File{
		Path:    cfg.OutputFilename(pkg.Dir),
		Package: pkg.Name,
	}
	for _, td := range subjects {
		ctors, err := r.synth.Synthesize(td)
		if err != nil {
			return names, fmt.Errorf("generate %s.%s: %w", pkg.Path, td.Name, err)
		}
		file.Constructors = append(file.Constructors, ctors...)
		file.Imports = append(file.Imports, td.Imports...)
	}

	if err := ctx.Err(); err != nil {
		return names, err
	}
	if err := r.generator.Generate(file); err != nil {
		return names, fmt.Errorf("generate %s: %w", pkg.Path, err)
	}
	r.log.Info("generated", "pkg", pkg.Path, "file", file.Path, "constructors", len(file.Constructors))
	return names, nil
}
