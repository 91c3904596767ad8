// Package spec reads the declarative description of a documentation tree.
//
// A declarative spec is a nested, ordered mapping. Each key names an entry;
// each value is either a group ({sidebar: label, files: [entry, ...]}) or an
// arbitrary mapping that becomes the payload of a page:
//
//	users:
//	  sidebar: Users
//	  files:
//	    - list.md:
//	        route: /users/list
//	        method: GET
//	    - get.md:
//	        route: /users/get
//	        method: GET
//
// Key order is significant (it decides sidebar positions), so documents are
// decoded through [yaml.Node] into [Map], an ordered slice of entries, rather
// than into a Go map.
package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/docforge/pkg/errors"
)

// Entry is a single key/value pair of a [Map].
type Entry struct {
	Key   string
	Value any
}

// Map is an ordered mapping. Values are Map, []any, string, bool, int,
// float64 or nil.
type Map []Entry

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present, even with a nil value.
func (m Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// String returns the value under key if it is a string.
func (m Map) String(key string) (string, bool) {
	v, _ := m.Get(key)
	s, ok := v.(string)
	return s, ok
}

// Bool returns the value under key if it is a bool.
func (m Map) Bool(key string) (bool, bool) {
	v, _ := m.Get(key)
	b, ok := v.(bool)
	return b, ok
}

// Map returns the value under key if it is a nested mapping.
func (m Map) Map(key string) (Map, bool) {
	v, _ := m.Get(key)
	sub, ok := v.(Map)
	return sub, ok
}

// Keys returns the keys in document order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// Native converts m into plain Go maps and slices. Order is lost.
func (m Map) Native() map[string]any {
	out := make(map[string]any, len(m))
	for _, e := range m {
		out[e.Key] = native(e.Value)
	}
	return out
}

func native(v any) any {
	switch v := v.(type) {
	case Map:
		return v.Native()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = native(item)
		}
		return out
	default:
		return v
	}
}

// ReadFile reads and parses the spec at path.
// A missing file is reported as a configuration error.
func ReadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "docs %q does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "read docs %q", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a YAML document into an ordered Map.
// An empty document yields an empty Map; any other non-mapping root is an error.
func Parse(data []byte) (Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parse spec")
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return Map{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return Map{}, nil
	}

	v, err := decode(root)
	if err != nil {
		return nil, err
	}
	m, ok := v.(Map)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "line %d: spec root must be a mapping", root.Line)
	}
	return m, nil
}

func decode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		explicit := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; !isMerge(k) {
				explicit[k.Value] = true
			}
		}

		m := make(Map, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, errors.New(errors.ErrCodeInvalidSpec, "line %d: mapping keys must be scalars", k.Line)
			}
			if isMerge(k) {
				var err error
				if m, err = merge(m, v, explicit); err != nil {
					return nil, err
				}
				continue
			}
			if m.Has(k.Value) {
				return nil, errors.New(errors.ErrCodeInvalidSpec, "line %d: duplicate key %q", k.Line, k.Value)
			}
			val, err := decode(v)
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: k.Value, Value: val})
		}
		return m, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "line %d: decode scalar", n.Line)
		}
		return v, nil

	case yaml.AliasNode:
		return decode(n.Alias)

	default:
		return nil, errors.New(errors.ErrCodeInvalidSpec, "line %d: unsupported YAML node", n.Line)
	}
}

// isMerge reports whether k is the YAML merge key "<<".
func isMerge(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge"
}

// merge appends the entries of the mapping v, or of each mapping in the list
// v, at the position of the merge key. Keys set explicitly on the target and
// keys merged from an earlier mapping take precedence.
func merge(m Map, v *yaml.Node, explicit map[string]bool) (Map, error) {
	sources := []*yaml.Node{v}
	if v.Kind == yaml.SequenceNode {
		sources = v.Content
	}
	for _, src := range sources {
		val, err := decode(src)
		if err != nil {
			return nil, err
		}
		sub, ok := val.(Map)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSpec,
				"line %d: merge value must be a mapping or a list of mappings", src.Line)
		}
		for _, e := range sub {
			if explicit[e.Key] || m.Has(e.Key) {
				continue
			}
			m = append(m, e)
		}
	}
	return m, nil
}
