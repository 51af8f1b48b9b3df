// Package markup loads template markup into a dom tree using the
// golang.org/x/net/html tokenizer. It is not a template language: {{ }}
// interpolations pass through untouched as text and attribute values for
// the binding compiler.
package markup

import (
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

// crPlaceholder stands in for carriage returns while tokenizing. The
// tokenizer folds \r\n into \n; templates must keep them verbatim.
const crPlaceholder = "\uE00D"

// Parse parses markup with exactly one top-level element and returns it.
// Whitespace-only text and comments around the root are ignored.
func Parse(src string) (*dom.Node, error) {
	return parse("", src)
}

// ParseFile reads and parses a template file. Errors carry the file
// location.
func ParseFile(path string) (*dom.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeMalformedMarkup).WithDetail(path).Wrap(err)
	}
	return parse(path, string(data))
}

func parse(name, src string) (*dom.Node, error) {
	nodes, err := parseFragment(name, src)
	if err != nil {
		return nil, err
	}
	var root *dom.Node
	for _, n := range nodes {
		if !n.IsElement() {
			if strings.TrimSpace(n.TextContent()) != "" {
				return nil, errors.New(errors.CodeMalformedMarkup).
					WithDetail("text outside the root element").
					WithSuggestion("Wrap the template in a single element.")
			}
			continue
		}
		if root != nil {
			return nil, errors.New(errors.CodeMalformedMarkup).
				WithDetailf("multiple root elements <%s> and <%s>", root.Tag(), n.Tag()).
				WithSuggestion("Wrap the template in a single element.")
		}
		root = n
	}
	if root == nil {
		return nil, errors.New(errors.CodeMalformedMarkup).WithDetail("no root element")
	}
	return root, nil
}

// ParseFragment parses markup into its top-level nodes.
func ParseFragment(src string) ([]*dom.Node, error) {
	return parseFragment("", src)
}

func parseFragment(name, src string) ([]*dom.Node, error) {
	z := html.NewTokenizer(strings.NewReader(strings.ReplaceAll(src, "\r", crPlaceholder)))

	var (
		top    []*dom.Node
		stack  []*dom.Node
		offset int
	)
	appendNode := func(n *dom.Node) {
		if len(stack) == 0 {
			top = append(top, n)
			return
		}
		stack[len(stack)-1].AppendChild(n)
	}

	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return top, nil
			}
			return nil, errors.New(errors.CodeMalformedMarkup).
				WithSourceLocation(name, src, start).
				Wrap(z.Err())

		case html.TextToken:
			appendNode(dom.NewText(restoreCR(string(z.Text()))))

		case html.StartTagToken, html.SelfClosingTagToken:
			el := element(z)
			appendNode(el)
			if tt == html.StartTagToken && !dom.IsVoidElement(el.Tag()) {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			tag, _ := z.TagName()
			i := len(stack) - 1
			for i >= 0 && stack[i].Tag() != string(tag) {
				i--
			}
			if i < 0 {
				if dom.IsVoidElement(string(tag)) {
					continue
				}
				return nil, errors.New(errors.CodeMalformedMarkup).
					WithDetailf("unexpected </%s>", tag).
					WithSourceLocation(name, src, start)
			}
			stack = stack[:i]

		case html.CommentToken, html.DoctypeToken:
			// ignored
		}
	}
}

// element builds a dom element from the current start tag token.
func element(z *html.Tokenizer) *dom.Node {
	tag, hasAttr := z.TagName()
	el := dom.NewElement(string(tag))
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		el.SetAttribute(string(key), restoreCR(string(val)))
	}
	return el
}

func restoreCR(s string) string {
	return strings.ReplaceAll(s, crPlaceholder, "\r")
}
