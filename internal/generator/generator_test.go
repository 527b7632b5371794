package generator

import (
	"bytes"
	"errors"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-demo/internal/classifier"
	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/diagnostic"
	"github.com/seitarof/gen-demo/internal/synth"
)

type memWriter struct {
	files map[string]string
}

func (w *memWriter) Write(filename string, data []byte) error {
	if w.files == nil {
		w.files = map[string]string{}
	}
	w.files[filename] = string(data)
	return nil
}

type failingFormatter struct{}

func (failingFormatter) Format(string, []byte) ([]byte, error) { return nil, errors.New("boom") }

func sampleFile(path string) File {
	return File{
		Path:    path,
		Package: "model",
		Imports: []decl.Import{
			{Path: "strings", PkgName: "strings"},
			{Path: "time", PkgName: "time"},
			{Name: "_", Path: "embed"},
		},
		Constructors: []synth.Constructor{
			{
				Name:     "DemoBar",
				Doc:      "DemoBar constructs a demo Bar.",
				Params:   []classifier.Param{{Name: "x", Type: "int32"}, {Name: "y", Type: "string"}},
				Result:   "Bar",
				Body:     "Bar{X: x, Y: y}",
				Exported: true,
			},
			{
				Name:       "DemoCrab",
				Doc:        "DemoCrab constructs a demo Crab.",
				Lints:      []string{"//nolint:unused"},
				TypeParams: []decl.TypeParam{{Name: "T", Constraint: "any"}},
				Params:     []classifier.Param{{Name: "legs", Type: "iter.Seq[T]"}},
				Result:     "Crab[T]",
				Body:       "Crab[T]{Legs: slices.Collect(legs), Delay: time.Second}",
				Imports:    []string{"iter", "slices"},
			},
		},
	}
}

func TestGenerate_WritesFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "demo_gen.go")

	g := New(NewGoimportsFormatter(), NewFileWriter())
	require.NoError(t, g.Generate(sampleFile(filename)))

	b, err := os.ReadFile(filename)
	require.NoError(t, err)
	got := string(b)

	assert.True(t, strings.HasPrefix(got, Header+"\n"), got)
	assert.Contains(t, got, "package model")
	assert.Contains(t, got, "// DemoBar constructs a demo Bar.\nfunc DemoBar(x int32, y string) Bar {\n\treturn Bar{X: x, Y: y}\n}")
	assert.Contains(t, got, "func DemoCrab[T any](legs iter.Seq[T]) Crab[T] {")
	assert.Contains(t, got, "//nolint:unused\nfunc DemoCrab")
	assert.Contains(t, got, `"iter"`)
	assert.Contains(t, got, `"slices"`)
	assert.Contains(t, got, `"time"`)
	assert.NotContains(t, got, `"strings"`, "unused imports are pruned")
	assert.NotContains(t, got, `"embed"`)

	_, err = parser.ParseFile(token.NewFileSet(), filename, b, parser.ParseComments)
	assert.NoError(t, err)
}

func TestGenerate_NoConstructors(t *testing.T) {
	g := New(NewGoimportsFormatter(), &memWriter{})
	err := g.Generate(File{Path: "demo_gen.go", Package: "model"})
	assert.EqualError(t, err, "no constructors")
}

func TestGenerate_FormatError(t *testing.T) {
	w := &memWriter{}
	g := New(failingFormatter{}, w)
	err := g.Generate(sampleFile("demo_gen.go"))
	assert.ErrorContains(t, err, "format: boom")
	assert.Empty(t, w.files)
}

func TestStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	g := New(passthroughFormatter{}, NewStreamWriter(&buf))
	require.NoError(t, g.Generate(sampleFile("pkg/demo_gen.go")))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "// pkg/demo_gen.go\n"+Header), out)
	assert.Contains(t, out, "func DemoBar(x int32, y string) Bar")
}

func TestBuildTemplateData_Imports(t *testing.T) {
	data, err := buildTemplateData(sampleFile("demo_gen.go"))
	require.NoError(t, err)
	assert.Equal(t, Header, data.Header)
	assert.Equal(t, []decl.Import{
		{Path: "iter"},
		{Path: "slices"},
		{Path: "time"},
	}, data.Imports)
}

func TestBuildTemplateData_ImportConflict(t *testing.T) {
	file := File{
		Path:    "demo_gen.go",
		Package: "model",
		Imports: []decl.Import{
			{Path: "crypto/rand", PkgName: "rand"},
			{Path: "math/rand", PkgName: "rand"},
		},
		Constructors: []synth.Constructor{
			{Name: "DemoSeed", Result: "Seed", Body: "Seed{R: rand.Reader}"},
		},
	}
	_, err := buildTemplateData(file)
	assert.ErrorIs(t, err, diagnostic.ImportConflict)
	assert.ErrorContains(t, err, `rand refers to both "crypto/rand" and "math/rand"`)

	w := &memWriter{}
	assert.ErrorIs(t, New(passthroughFormatter{}, w).Generate(file), diagnostic.ImportConflict)
	assert.Empty(t, w.files)
}

func TestBuildTemplateData_UnreferencedConflictIsIgnored(t *testing.T) {
	file := File{
		Package: "model",
		Imports: []decl.Import{
			{Path: "crypto/rand", PkgName: "rand"},
			{Path: "math/rand", PkgName: "rand"},
			{Name: "mrand", Path: "math/rand", PkgName: "rand"},
			{Path: "example.com/unknown"},
		},
		Constructors: []synth.Constructor{
			{Name: "DemoSeed", Result: "Seed", Body: "Seed{N: mrand.Int(), S: x.Y.Z}"},
		},
	}
	data, err := buildTemplateData(file)
	require.NoError(t, err)
	assert.Equal(t, []decl.Import{
		{Path: "example.com/unknown"},
		{Name: "mrand", Path: "math/rand"},
	}, data.Imports)
}

func TestPackageRefs(t *testing.T) {
	c := synth.Constructor{
		Result:     "Box[T]",
		Body:       "Box[T]{At: time.Now(), Items: slices.Collect(items), Deep: a.b.c}",
		TypeParams: []decl.TypeParam{{Name: "T", Constraint: "fmt.Stringer"}},
		Params:     []classifier.Param{{Name: "items", Type: "iter.Seq[T]"}},
	}
	assert.ElementsMatch(t, []string{"time", "slices", "a", "fmt", "iter"}, packageRefs(c))
}

func TestRenderSignatures(t *testing.T) {
	assert.Equal(t, "", renderTypeParams(nil))
	assert.Equal(t, "[T comparable, P any]", renderTypeParams([]decl.TypeParam{{Name: "T", Constraint: "comparable"}, {Name: "P", Constraint: "any"}}))
	assert.Equal(t, "", renderParams(nil))
	assert.Equal(t, "x int32, y string", renderParams([]classifier.Param{{Name: "x", Type: "int32"}, {Name: "y", Type: "string"}}))
}
