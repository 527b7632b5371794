// Package lint selects the linter suppression directives of a subject type
// that must follow it onto its generated constructors.
package lint

import (
	"regexp"
	"strings"

	"github.com/seitarof/gen-demo/internal/decl"
)

var (
	// //nolint, //nolint:a,b and an optional "// reason" suffix.
	nolintRe = regexp.MustCompile(`^nolint(:[A-Za-z0-9_-]+(,[A-Za-z0-9_-]+)*)?(\s+//.*)?$`)
	// //lint:ignore Check reason
	ignoreRe = regexp.MustCompile(`^lint:ignore\s+[A-Za-z0-9_,*-]+\s+\S.*$`)
	// //revive:disable-next-line and //revive:disable-next-line:rule
	reviveRe = regexp.MustCompile(`^revive:disable-next-line(:[A-Za-z0-9_,-]+)?(\s+.*)?$`)
)

// Collect returns, in declaration order, the attribute lines that control
// linters: unconditional //nolint, scoped //nolint:<linters>, //lint:ignore
// and //revive:disable-next-line. Documentation, compiler and generator
// directives are left behind, as are file-scoped suppressions.
func Collect(attrs []decl.Attribute) []string {
	var out []string
	for _, a := range attrs {
		if IsSuppression(a) {
			out = append(out, strings.TrimRight(a.Text, " \t"))
		}
	}
	return out
}

// IsSuppression reports whether a is a linter suppression directive.
func IsSuppression(a decl.Attribute) bool {
	body, ok := a.Directive()
	if !ok {
		return false
	}
	body = strings.TrimRight(body, " \t")
	switch {
	case strings.HasPrefix(body, "nolint"):
		return nolintRe.MatchString(body)
	case strings.HasPrefix(body, "lint:ignore"):
		return ignoreRe.MatchString(body)
	case strings.HasPrefix(body, "revive:disable-next-line"):
		return reviveRe.MatchString(body)
	default:
		return false
	}
}
