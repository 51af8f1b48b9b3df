package component

import (
	"os"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/markup"
)

// Definition produces fresh DOM trees for component instances.
type Definition struct {
	source string
	build  func() (*dom.Node, error)
}

// Define creates a definition from template markup. The markup and its
// bindings are validated once here; every New re-parses into a fresh tree.
func Define(source string) (*Definition, error) {
	root, err := markup.Parse(source)
	if err != nil {
		return nil, err
	}
	return define(root, source)
}

// DefineFile is Define for a template file. Markup errors carry the file
// location.
func DefineFile(path string) (*Definition, error) {
	root, err := markup.ParseFile(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := define(root, string(data))
	if err != nil {
		be := errors.FromError(err, errors.CodeInvalidExpression)
		if be.Location == nil {
			be.Location = &errors.Location{File: path}
		}
		return nil, be
	}
	return def, nil
}

func define(root *dom.Node, source string) (*Definition, error) {
	if _, err := binding.Compile(root); err != nil {
		return nil, err
	}
	return &Definition{
		source: source,
		build:  func() (*dom.Node, error) { return markup.Parse(source) },
	}, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(source string) *Definition {
	def, err := Define(source)
	if err != nil {
		panic(err)
	}
	return def
}

// DefineNode creates a definition from a tree builder. build must return a
// new tree on every call.
func DefineNode(build func() *dom.Node) *Definition {
	return &Definition{
		build: func() (*dom.Node, error) { return build(), nil },
	}
}

// Source returns the template markup, or "" for DefineNode definitions.
func (d *Definition) Source() string { return d.source }

// instantiate builds a fresh tree and compiles its descriptors.
func (d *Definition) instantiate() (*dom.Node, []*binding.Descriptor, error) {
	root, err := d.build()
	if err != nil {
		return nil, nil, err
	}
	ds, err := binding.Compile(root)
	if err != nil {
		return nil, nil, err
	}
	return root, ds, nil
}
