package flatten

import "sort"

// Options bound the discovery walk.
type Options struct {
	MaxDepth      int // Maximum key-segment depth. Defaults to 5.
	MaxArrayItems int // Array elements inspected per array. Defaults to 3.
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = 5
	}
	if o.MaxArrayItems <= 0 {
		o.MaxArrayItems = 3
	}
	return o
}

// Discover walks every record and returns the deduplicated set of
// addressable field paths, including paths inside JSON-encoded string
// leaves. Output is ordered by (depth, contains-index, lexical path) so
// shallow non-indexed paths come first.
func Discover(records []map[string]any, opts Options) []Path {
	opts = opts.withDefaults()
	seen := make(map[string]Path)
	for _, rec := range records {
		for k, v := range rec {
			walkValue(v, Path{keySegment(k)}, 1, opts, seen)
		}
	}

	paths := make([]Path, 0, len(seen))
	for _, p := range seen {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		a, b := paths[i], paths[j]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		ai, bi := a.HasIndex(), b.HasIndex()
		if ai != bi {
			return !ai
		}
		return a.String() < b.String()
	})
	return paths
}

// walkValue records leaf paths and descends into collections. depth counts
// key segments; index segments stay on their array's level.
func walkValue(v any, path Path, depth int, opts Options, seen map[string]Path) {
	switch val := v.(type) {
	case map[string]any:
		// The object itself stays selectable (extraction serializes it).
		addPath(path, seen)
		if depth >= opts.MaxDepth {
			return
		}
		for k, child := range val {
			walkValue(child, path.child(keySegment(k)), depth+1, opts, seen)
		}

	case []any:
		walkArray(val, path, depth, opts, seen)

	case string:
		// A string leaf that parses as JSON is walked as if it were
		// structurally embedded; the raw field stays selectable either way.
		if looksLikeJSON(val) {
			if parsed, err := decodeJSON(val); err == nil {
				walkValue(parsed, path, depth, opts, seen)
			}
		}
		addPath(path, seen)

	default:
		addPath(path, seen)
	}
}

// walkArray inspects a bounded prefix of the array. Object elements each
// get an indexed subtree; the first non-object element is expanded once
// and ends the scan; an empty array contributes its bare path.
func walkArray(arr []any, path Path, depth int, opts Options, seen map[string]Path) {
	n := len(arr)
	if n > opts.MaxArrayItems {
		n = opts.MaxArrayItems
	}

	expanded := false
	for i := 0; i < n; i++ {
		if _, isObj := arr[i].(map[string]any); isObj {
			walkValue(arr[i], path.child(indexSegment(i)), depth, opts, seen)
			expanded = true
			continue
		}
		if !expanded {
			walkValue(arr[i], path.child(indexSegment(i)), depth, opts, seen)
			expanded = true
		}
		break
	}
	if !expanded {
		addPath(path, seen)
	}
}

func addPath(p Path, seen map[string]Path) {
	if len(p) == 0 {
		return
	}
	seen[p.String()] = p
}
