package engine

import "strings"

// Reserved top-level keys in the evaluation context. Any other first segment
// resolves against the caller-supplied Extra map.
const (
	fieldModel             = "model"
	fieldModelCapabilities = "modelCapabilities"
	fieldParameters        = "parameters"
)

// Lookup resolves a dot-path field against the context. The first segment
// selects the source (model, modelCapabilities, parameters, or an Extra key);
// remaining segments walk into nested maps. Any missing or non-map
// intermediate yields (nil, false) rather than an error, mirroring an
// undefined lookup.
func (c *Context) Lookup(fieldPath string) (interface{}, bool) {
	if fieldPath == "" {
		return nil, false
	}

	parts := strings.Split(fieldPath, ".")
	rest := parts[1:]

	switch parts[0] {
	case fieldModel:
		if len(rest) > 0 {
			return nil, false // model is a plain string, not walkable
		}
		return c.Model, true

	case fieldModelCapabilities:
		return walkMap(c.ModelCapabilities, rest)

	case fieldParameters:
		return walkMap(c.Parameters, rest)

	default:
		if c.Extra == nil {
			return nil, false
		}
		value, ok := c.Extra[parts[0]]
		if !ok {
			return nil, false
		}
		return walkValue(value, rest)
	}
}

// walkMap walks the remaining path segments into a nested map.
func walkMap(m map[string]interface{}, path []string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	if len(path) == 0 {
		return m, true
	}
	value, ok := m[path[0]]
	if !ok {
		return nil, false
	}
	return walkValue(value, path[1:])
}

// walkValue continues a dot-path walk from an arbitrary value.
func walkValue(value interface{}, path []string) (interface{}, bool) {
	if len(path) == 0 {
		return value, true
	}
	nested, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return walkMap(nested, path)
}
