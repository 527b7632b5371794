package matcher

import (
	"slices"
	"strings"

	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/parser"
)

// Marker requests constructors for the type it documents.
const Marker = "//derive:demo"

// SubjectMatcher selects the subject types of a package.
type SubjectMatcher interface {
	// Match returns the selected declarations in source order and the
	// requested names that the package does not declare.
	Match(pkg *parser.Package, names []string) ([]decl.TypeDeclaration, []string)
}

type subjectMatcherImpl struct{}

// New returns default subject matcher.
func New() SubjectMatcher {
	return &subjectMatcherImpl{}
}

func (m *subjectMatcherImpl) Match(pkg *parser.Package, names []string) ([]decl.TypeDeclaration, []string) {
	if len(names) == 0 {
		var out []decl.TypeDeclaration
		for _, td := range pkg.Types {
			if HasMarker(td.Attrs) {
				out = append(out, td)
			}
		}
		return out, nil
	}

	wanted := toNameSet(names)
	out := make([]decl.TypeDeclaration, 0, len(wanted))
	for _, td := range pkg.Types {
		if wanted[td.Name] {
			out = append(out, td)
			delete(wanted, td.Name)
		}
	}
	missing := make([]string, 0, len(wanted))
	for name := range wanted {
		missing = append(missing, name)
	}
	slices.Sort(missing)
	return out, missing
}

// HasMarker reports whether attrs carry the derivation marker.
func HasMarker(attrs []decl.Attribute) bool {
	for _, a := range attrs {
		if strings.TrimRight(a.Text, " \t") == Marker {
			return true
		}
	}
	return false
}

func toNameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		set[n] = true
	}
	return set
}
