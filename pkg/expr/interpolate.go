package expr

import (
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// HasInterpolation reports whether text contains an opening {{.
func HasInterpolation(text string) bool {
	return strings.Contains(text, openDelim)
}

// Interpolate splits text into ordered parts: Literal strings for the text
// between interpolations and parsed expressions for each {{ }} body. bound
// reports whether any interpolation was found. Empty literal runs are
// dropped.
func Interpolate(text string) (parts []Expr, bound bool, err error) {
	rest := text
	offset := 0
	for {
		i := strings.Index(rest, openDelim)
		if i < 0 {
			if rest != "" {
				parts = append(parts, Literal{Value: rest})
			}
			return parts, bound, nil
		}
		if i > 0 {
			parts = append(parts, Literal{Value: rest[:i]})
		}
		body := rest[i+len(openDelim):]
		j := strings.Index(body, closeDelim)
		if j < 0 {
			return nil, false, errors.New(errors.CodeUnterminated).
				WithDetailf("{{ at offset %d in %q", offset+i, text)
		}
		e, perr := Parse(body[:j])
		if perr != nil {
			if be, ok := perr.(*errors.BindError); ok {
				return nil, false, be.WithDetailf("%q at offset %d", strings.TrimSpace(body[:j]), offset+i)
			}
			return nil, false, perr
		}
		parts = append(parts, e)
		bound = true

		consumed := i + len(openDelim) + j + len(closeDelim)
		rest = rest[consumed:]
		offset += consumed
	}
}
