package cli

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-demo/internal/attr"
	"github.com/seitarof/gen-demo/internal/classifier"
	"github.com/seitarof/gen-demo/internal/diagnostic"
	"github.com/seitarof/gen-demo/internal/generator"
	"github.com/seitarof/gen-demo/internal/matcher"
	"github.com/seitarof/gen-demo/internal/parser"
	"github.com/seitarof/gen-demo/internal/synth"
)

const testdataPath = "github.com/seitarof/gen-demo/testdata/"

type captureWriter struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (w *captureWriter) Write(filename string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files == nil {
		w.files = map[string][]byte{}
	}
	w.files[filename] = data
	return nil
}

func newStack(w generator.FileWriter) Runner {
	attrs := attr.NewParser(nil)
	return NewRunner(
		parser.New(parser.Options{}),
		matcher.New(),
		synth.New(attrs, classifier.New(attrs, nil, classifier.DefaultRules()...), nil),
		generator.New(generator.NewGoimportsFormatter(), w),
		nil,
	)
}

func testdataDir(t *testing.T, name string) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return dir
}

// typeCheck loads pkgPath with the generated file and a usage file laid over
// it and fails on any error.
func typeCheck(t *testing.T, pkgPath string, overlay map[string][]byte) {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{
		Context: t.Context(),
		Mode:    packages.NeedName | packages.NeedSyntax | packages.NeedTypes,
		Overlay: overlay,
	}, pkgPath)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	for _, e := range pkgs[0].Errors {
		t.Errorf("type error: %s", e)
	}
}

func TestRunner_Run_DemoStructs(t *testing.T) {
	w := &captureWriter{}
	cfg := &Config{Packages: []string{testdataPath + "demostructs"}, Output: DefaultOutput}
	require.NoError(t, newStack(w).Run(t.Context(), cfg))

	dir := testdataDir(t, "demostructs")
	out := filepath.Join(dir, DefaultOutput)
	require.Contains(t, w.files, out)
	got := string(w.files[out])

	for _, want := range []string{
		"// Code generated by gen-demo. DO NOT EDIT.",
		"func DemoFoo() Foo",
		"func DemoBar(x int32, y string) Bar",
		"func demoBaz(a int, b string) Baz",
		"func DemoWaldo() Waldo",
		"func DemoSponge(",
		"func DemoJob[StatusIn ~int](status_ StatusIn, names_ iter.Seq[string], defaultPort_ int) Job",
		"return Job{Status: status(status_), Names: names(slices.Collect(names_)), Port: defaultPort, DefaultPort: defaultPort_}",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "DemoPlain")

	usage := []byte(`package demostructs

import "slices"

var (
	_ Foo   = DemoFoo()
	_ Bar   = DemoBar(1, "y")
	_ Baz   = demoBaz(1, "b")
	_ Waldo = DemoWaldo()
	_ Job   = DemoJob(status(1), slices.Values([]string{"a"}), 2)
)
`)
	typeCheck(t, testdataPath+"demostructs", map[string][]byte{
		out: w.files[out],
		filepath.Join(dir, "use_overlay.go"): usage,
	})
}

func TestRunner_Run_DemoEnums(t *testing.T) {
	w := &captureWriter{}
	cfg := &Config{Packages: []string{testdataPath + "demoenums"}, Output: DefaultOutput}
	require.NoError(t, newStack(w).Run(t.Context(), cfg))

	dir := testdataDir(t, "demoenums")
	out := filepath.Join(dir, DefaultOutput)
	require.Contains(t, w.files, out)
	got := string(w.files[out])

	for _, want := range []string{
		"func DemoFizz_bite_me() Fizz",
		"func DemoEnterprise_picard() Enterprise",
		"func DemoEnterprise_data(name string) Enterprise",
		"return &Borg{",
		"func DemoTree_leaf[T any](value T) Tree[T]",
		"//nolint:unused",
		"//lint:ignore U1000 kept for the demo",
	} {
		assert.Contains(t, got, want)
	}

	usage := []byte(`package demoenums

var (
	_ Fizz       = DemoFizz_bite_me()
	_ Enterprise = DemoEnterprise_picard()
	_ Enterprise = DemoEnterprise_data("Worf")
	_ Tree[int]  = DemoTree_leaf(1)
	_ Upside     = DemoUpside_down()
)
`)
	typeCheck(t, testdataPath+"demoenums", map[string][]byte{
		out: w.files[out],
		filepath.Join(dir, "use_overlay.go"): usage,
	})
}

func TestRunner_Run_FirstRun(t *testing.T) {
	w := &captureWriter{}
	cfg := &Config{Packages: []string{testdataPath + "demofirst"}, Output: DefaultOutput}
	require.NoError(t, newStack(w).Run(t.Context(), cfg))

	out := filepath.Join(testdataDir(t, "demofirst"), DefaultOutput)
	require.Contains(t, w.files, out)
	assert.Contains(t, string(w.files[out]), "func DemoBar(x int) Bar")
	typeCheck(t, testdataPath+"demofirst", map[string][]byte{out: w.files[out]})
}

func TestRunner_Run_ExampleIsCurrent(t *testing.T) {
	w := &captureWriter{}
	cfg := &Config{Packages: []string{"github.com/seitarof/gen-demo/examples/demo"}, Output: DefaultOutput}
	require.NoError(t, newStack(w).Run(t.Context(), cfg))

	out, err := filepath.Abs(filepath.Join("..", "..", "examples", "demo", DefaultOutput))
	require.NoError(t, err)
	require.Contains(t, w.files, out)
	want, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, compactSource(string(want)), compactSource(string(w.files[out])),
		"examples/demo is stale, run go generate ./examples/...")
}

// compactSource drops layout so the comparison ignores formatter details.
func compactSource(src string) string {
	return strings.Join(strings.Fields(src), "")
}

func TestRunner_Run_DemoBad(t *testing.T) {
	tests := []struct {
		typ  string
		kind diagnostic.Kind
	}{
		{typ: "Number", kind: diagnostic.UnsupportedShape},
		{typ: "Table", kind: diagnostic.UnsupportedShape},
		{typ: "Void", kind: diagnostic.EmptyEnum},
		{typ: "Level", kind: diagnostic.DiscriminantUnsupported},
		{typ: "Twice", kind: diagnostic.MultipleConfigAttributes},
		{typ: "Unknown", kind: diagnostic.UnrecognizedOption},
		{typ: "Broken", kind: diagnostic.EmbeddedExpressionSyntaxError},
		{typ: "Clash", kind: diagnostic.UnsupportedShape},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			w := &captureWriter{}
			cfg := &Config{
				Packages: []string{testdataPath + "demobad"},
				Types:    []string{tt.typ},
				Output:   DefaultOutput,
			}
			err := newStack(w).Run(t.Context(), cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), "types.go:")
			assert.Empty(t, w.files)
		})
	}
}
