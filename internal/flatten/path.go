package flatten

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a field path: either a string key or an array
// index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path is an ordered segment sequence, rendered as "a.b[0].c". Two paths
// are equal iff their segment sequences are equal.
type Path []Segment

func keySegment(k string) Segment { return Segment{Key: k} }
func indexSegment(i int) Segment  { return Segment{Index: i, IsIndex: true} }

// String renders the dotted/bracketed form.
func (p Path) String() string {
	var sb strings.Builder
	for _, seg := range p {
		if seg.IsIndex {
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(seg.Index))
			sb.WriteString("]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(seg.Key)
	}
	return sb.String()
}

// HasIndex reports whether any segment is an array index.
func (p Path) HasIndex() bool {
	for _, seg := range p {
		if seg.IsIndex {
			return true
		}
	}
	return false
}

// child returns a copy of p extended by one segment. Copying keeps sibling
// walks from sharing a backing array.
func (p Path) child(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// ParsePath parses a textual path like "response.body.choices[0].message"
// into segments. Keys are split on dots; each key may carry trailing [i]
// index suffixes.
func ParsePath(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty path")
	}
	var p Path
	for _, part := range strings.Split(s, ".") {
		key := part
		var suffix string
		if i := strings.IndexByte(part, '['); i >= 0 {
			key, suffix = part[:i], part[i:]
		}
		if key == "" {
			return nil, fmt.Errorf("empty key in path %q", s)
		}
		p = append(p, keySegment(key))
		for suffix != "" {
			if suffix[0] != '[' {
				return nil, fmt.Errorf("malformed index in path %q", s)
			}
			end := strings.IndexByte(suffix, ']')
			if end < 1 {
				return nil, fmt.Errorf("unterminated index in path %q", s)
			}
			idx, err := strconv.Atoi(suffix[1:end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("bad index %q in path %q", suffix[1:end], s)
			}
			p = append(p, indexSegment(idx))
			suffix = suffix[end+1:]
		}
	}
	return p, nil
}
