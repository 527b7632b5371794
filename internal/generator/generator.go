package generator

import (
	"bytes"
	"embed"
	"fmt"
	"go/scanner"
	"go/token"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/seitarof/gen-demo/internal/classifier"
	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/diagnostic"
	"github.com/seitarof/gen-demo/internal/synth"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// Header is the first line of every generated file.
const Header = "// Code generated by gen-demo. DO NOT EDIT."

// Generator renders constructors into one Go file.
type Generator interface {
	Generate(file File) error
}

// File is one generated output file.
type File struct {
	// Path is the output filename.
	Path    string
	Package string
	// Imports are the imports of the files declaring the subject types.
	// Only those the constructors refer to are emitted.
	Imports      []decl.Import
	Constructors []synth.Constructor
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code.
type FileWriter interface {
	Write(filename string, data []byte) error
}

type generatorImpl struct {
	formatter Formatter
	writer    FileWriter
	tmpl      *template.Template
}

type goimportsFormatter struct{}

type fileWriter struct{}

type streamWriter struct {
	w io.Writer
}

type templateData struct {
	Header       string
	Package      string
	Imports      []decl.Import
	Constructors []synth.Constructor
}

// New creates a code generator.
func New(f Formatter, w FileWriter) Generator {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"typeParams": renderTypeParams,
		"params":     renderParams,
	}).ParseFS(templateFS, "templates/*.go.tmpl"))
	return &generatorImpl{formatter: f, writer: w, tmpl: tmpl}
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a plain file writer.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

// NewStreamWriter creates a writer that prints every file to w, preceded by
// its name.
func NewStreamWriter(w io.Writer) FileWriter {
	return &streamWriter{w: w}
}

func (g *generatorImpl) Generate(file File) error {
	if len(file.Constructors) == 0 {
		return fmt.Errorf("no constructors")
	}

	var buf bytes.Buffer
	data, err := buildTemplateData(file)
	if err != nil {
		return err
	}
	if err := g.tmpl.ExecuteTemplate(&buf, "constructors.go.tmpl", data); err != nil {
		return fmt.Errorf("template: %w", err)
	}

	formatted, err := g.formatter.Format(file.Path, buf.Bytes())
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if err := g.writer.Write(file.Path, formatted); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0o644)
}

func (w *streamWriter) Write(filename string, data []byte) error {
	if _, err := fmt.Fprintf(w.w, "// %s\n", filename); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

func buildTemplateData(file File) (templateData, error) {
	refs := map[string]bool{}
	for _, c := range file.Constructors {
		for _, name := range packageRefs(c) {
			refs[name] = true
		}
	}

	seen := map[decl.Import]struct{}{}
	bound := map[string]string{}
	var list []decl.Import
	add := func(imp decl.Import) error {
		if imp.Name == "_" || imp.Name == "." {
			return nil
		}
		if name := boundName(imp); name != "" {
			if !refs[name] {
				return nil
			}
			if path, ok := bound[name]; ok && path != imp.Path {
				return diagnostic.New(diagnostic.ImportConflict, token.Position{},
					"%s: %s refers to both %q and %q", file.Path, name, path, imp.Path)
			}
			bound[name] = imp.Path
		}
		key := decl.Import{Name: imp.Name, Path: imp.Path}
		if _, ok := seen[key]; ok {
			return nil
		}
		seen[key] = struct{}{}
		list = append(list, key)
		return nil
	}
	for _, imp := range file.Imports {
		if err := add(imp); err != nil {
			return templateData{}, err
		}
	}
	for _, c := range file.Constructors {
		for _, path := range c.Imports {
			if err := add(decl.Import{Path: path, PkgName: path}); err != nil {
				return templateData{}, err
			}
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Path == list[j].Path {
			return list[i].Name < list[j].Name
		}
		return list[i].Path < list[j].Path
	})

	return templateData{
		Header:       Header,
		Package:      file.Package,
		Imports:      list,
		Constructors: file.Constructors,
	}, nil
}

// boundName returns the name an import binds, or "" when it is not known
// without type information.
func boundName(imp decl.Import) string {
	if imp.Name != "" {
		return imp.Name
	}
	return imp.PkgName
}

// packageRefs returns the identifiers a constructor selects from, such as
// "time" in time.Second. Field selections like x.Y are included too; they
// only keep an import that would be pruned anyway.
func packageRefs(c synth.Constructor) []string {
	parts := []string{c.Result, c.Body}
	for _, tp := range c.TypeParams {
		parts = append(parts, tp.Constraint)
	}
	for _, p := range c.Params {
		parts = append(parts, p.Type)
	}

	var refs []string
	for _, src := range parts {
		var s scanner.Scanner
		fset := token.NewFileSet()
		s.Init(fset.AddFile("", fset.Base(), len(src)), []byte(src), nil, 0)
		var (
			before, prev token.Token
			prevLit      string
		)
		for {
			_, tok, lit := s.Scan()
			if tok == token.EOF {
				break
			}
			if tok == token.PERIOD && prev == token.IDENT && before != token.PERIOD {
				refs = append(refs, prevLit)
			}
			before, prev, prevLit = prev, tok, lit
		}
	}
	return refs
}

func renderTypeParams(params []decl.TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Name+" "+p.Constraint)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func renderParams(params []classifier.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Name+" "+p.Type)
	}
	return strings.Join(parts, ", ")
}
