package store

import (
	"strconv"
	"strings"
)

// MaxSequenceIndex is the largest index a segment may address in a
// sequence. Writes pad a sequence with nil up to the index, so larger
// numeric segments are plain mapping keys instead.
const MaxSequenceIndex = 1 << 16

// Segment is one step of a Path: a mapping key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key creates a mapping-key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index creates a sequence-index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// index returns the segment as a sequence index. Keys that are numeric-like
// ("0", "12") also qualify. Indexes above MaxSequenceIndex do not.
func (s Segment) index() (int, bool) {
	if s.IsIndex {
		return s.Index, s.Index >= 0 && s.Index <= MaxSequenceIndex
	}
	if !s.numeric() {
		return 0, false
	}
	n, err := strconv.Atoi(s.Key)
	if err != nil || n > MaxSequenceIndex {
		return 0, false
	}
	return n, true
}

// numeric reports whether the segment is written as a number, whether or
// not it is small enough to index a sequence.
func (s Segment) numeric() bool {
	if s.IsIndex {
		return true
	}
	if s.Key == "" {
		return false
	}
	for i := 0; i < len(s.Key); i++ {
		if s.Key[i] < '0' || s.Key[i] > '9' {
			return false
		}
	}
	return true
}

// Name returns the segment as a mapping key. Index segments render their
// decimal form, so Index(0) and Key("0") share a name.
func (s Segment) Name() string { return s.key() }

// key returns the segment as a mapping key.
func (s Segment) key() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// String renders the segment as it would appear in a path string.
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// equal compares segments by their addressing meaning, so Index(0) and
// Key("0") name the same slot.
func (s Segment) equal(o Segment) bool {
	return s.key() == o.key()
}

// Path addresses a value inside the store. Paths are never empty.
type Path []Segment

// P builds a Path from keys. Integers become index segments.
func P(parts ...any) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case int:
			p = append(p, Index(v))
		case string:
			p = append(p, Key(v))
		case Segment:
			p = append(p, v)
		}
	}
	return p
}

// ParsePath parses `a.b[0]["c d"]`-style path strings. Bracketed numbers
// become index segments; quoted bracket keys and dotted names become keys.
// ParsePath never fails: unterminated brackets consume the rest of the input
// as a key.
func ParsePath(s string) Path {
	var p Path
	i := 0
	for i < len(s) {
		switch c := s[i]; c {
		case '.':
			i++
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				p = append(p, Key(strings.TrimSpace(s[i+1:])))
				return p
			}
			inner := strings.TrimSpace(s[i+1 : i+end])
			i += end + 1
			if len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0] {
				p = append(p, Key(inner[1:len(inner)-1]))
				continue
			}
			if n, err := strconv.Atoi(inner); err == nil && n >= 0 {
				p = append(p, Index(n))
				continue
			}
			p = append(p, Key(inner))
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			p = append(p, Key(strings.TrimSpace(s[i:j])))
			i = j
		}
	}
	return p
}

// String renders the path in dotted form.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if !s.IsIndex && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Equal reports whether p and q address the same slot.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !p[i].equal(q[i]) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is p itself or an ancestor of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if !p[i].equal(prefix[i]) {
			return false
		}
	}
	return true
}

// Overlaps reports whether a change at one path can affect a read of the
// other: one is a prefix of the other.
func (p Path) Overlaps(q Path) bool {
	return p.HasPrefix(q) || q.HasPrefix(p)
}
