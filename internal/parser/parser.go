package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/logger"
)

// Parser loads Go packages and extracts their type declarations.
type Parser interface {
	Load(ctx context.Context, patterns ...string) ([]*Package, error)
}

// Options configures package loading.
type Options struct {
	// Dir is the directory patterns are resolved in. Empty means the
	// current directory.
	Dir string
	// Tags are build tags passed to the go command.
	Tags []string
	// Overlay replaces file contents by absolute path.
	Overlay map[string][]byte
	Logger  logger.Logger
}

type parserImpl struct {
	opts Options
	log  logger.Logger
}

// New returns default parser.
func New(opts Options) Parser {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &parserImpl{opts: opts, log: log}
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

func (p *parserImpl) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     p.opts.Dir,
		Overlay: p.opts.Overlay,
	}
	if len(p.opts.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(p.opts.Tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages %s: %w", strings.Join(patterns, " "), err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages match %s", strings.Join(patterns, " "))
	}

	out := make([]*Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if err := p.checkErrors(pkg); err != nil {
			return nil, err
		}
		out = append(out, extract(pkg))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// checkErrors fails on packages that could not be listed or parsed. Type
// errors are tolerated, and so is the go command's report that the package
// does not compile: the package may refer to constructors that have not been
// generated yet, or import packages only a directive payload uses.
func (p *parserImpl) checkErrors(pkg *packages.Package) error {
	checked := len(pkg.Syntax) > 0 && pkg.Types != nil && pkg.TypesInfo != nil
	tolerated := 0
	for _, e := range pkg.Errors {
		if checked && (e.Kind == packages.TypeError || isBuildFailure(e)) {
			tolerated++
			p.log.Debug("package error", "pkg", pkg.PkgPath, "err", e.Msg)
			continue
		}
		return fmt.Errorf("package %q: %s", pkg.PkgPath, e.Error())
	}
	if len(pkg.Syntax) == 0 {
		return fmt.Errorf("package %q has no Go files", pkg.PkgPath)
	}
	if tolerated > 0 {
		p.log.Warn("package does not compile, continuing with partial type information",
			"pkg", pkg.PkgPath, "errors", tolerated)
	}
	return nil
}

// isBuildFailure reports whether e is the compiler output the go command
// attaches to a package it failed to build. It has no position and starts
// with "# <import path>".
func isBuildFailure(e packages.Error) bool {
	if e.Pos != "" && e.Pos != "-" {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(e.Msg), "# ")
}

func packageDir(pkg *packages.Package) string {
	files := pkg.GoFiles
	if len(files) == 0 {
		files = pkg.CompiledGoFiles
	}
	if len(files) == 0 {
		return ""
	}
	return filepath.Dir(files[0])
}

// Package is one loaded package and the type declarations found in it.
type Package struct {
	decl.Package
	// Types lists every package-level type declaration in source order.
	Types []decl.TypeDeclaration
}

// Lookup returns the declaration of the named type.
func (p *Package) Lookup(name string) (decl.TypeDeclaration, bool) {
	for _, td := range p.Types {
		if td.Name == name {
			return td, true
		}
	}
	return decl.TypeDeclaration{}, false
}
