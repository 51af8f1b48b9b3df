package component

import (
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/store"
)

// depIndex maps the first segment of each dependency path to the
// descriptors reading below it. A change can only affect paths that share
// its first segment, so lookups scan one bucket.
type depIndex struct {
	all    []*binding.Descriptor
	byRoot map[string][]*binding.Descriptor
}

func newDepIndex(ds []*binding.Descriptor) depIndex {
	idx := depIndex{all: ds, byRoot: make(map[string][]*binding.Descriptor)}
	for _, d := range ds {
		seen := make(map[string]bool, len(d.Deps))
		for _, dep := range d.Deps {
			name := dep[0].Name()
			if seen[name] {
				continue
			}
			seen[name] = true
			idx.byRoot[name] = append(idx.byRoot[name], d)
		}
	}
	return idx
}

// lookup returns the descriptors depending on path, in compile order. The
// empty path is the whole store.
func (idx depIndex) lookup(path store.Path) []*binding.Descriptor {
	if len(path) == 0 {
		return idx.all
	}
	var out []*binding.Descriptor
	for _, d := range idx.byRoot[path[0].Name()] {
		if d.DependsOn(path) {
			out = append(out, d)
		}
	}
	return out
}
