// Package jsonschema models JSON Schema documents (draft 4/6/7) as decoded
// JSON values and provides the reference resolver used by the translation
// engine. A schema node is either one of the boolean forms (true matches
// anything, false matches nothing) or an Object.
package jsonschema

// Object is a non-boolean schema node: a mapping from keyword to JSON value.
// Values are the plain decoded forms (string, float64, bool, nil, []any,
// map[string]any).
type Object map[string]any

// AsObject reports whether v is an object schema node and returns it as an
// Object. Both Object and the raw decoded map form are accepted.
func AsObject(v any) (Object, bool) {
	switch o := v.(type) {
	case Object:
		return o, true
	case map[string]any:
		return Object(o), true
	default:
		return nil, false
	}
}

// IsTrue reports whether v is the boolean schema `true`.
func IsTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// IsFalse reports whether v is the boolean schema `false`.
func IsFalse(v any) bool {
	b, ok := v.(bool)
	return ok && !b
}

// String returns the string value of a keyword, when present and a string.
func (o Object) String(key string) (string, bool) {
	s, ok := o[key].(string)
	return s, ok
}

// Title returns the schema's title keyword.
func (o Object) Title() (string, bool) { return o.String("title") }

// Description returns the schema's description keyword.
func (o Object) Description() (string, bool) { return o.String("description") }

// Ref returns the schema's $ref keyword.
func (o Object) Ref() (string, bool) { return o.String("$ref") }

// ID returns the schema's $id keyword (draft 6+) or id (draft 4).
func (o Object) ID() (string, bool) {
	if s, ok := o.String("$id"); ok {
		return s, true
	}
	return o.String("id")
}

// List returns the value of a keyword as a JSON array, when present.
func (o Object) List(key string) ([]any, bool) {
	l, ok := o[key].([]any)
	return l, ok
}

// Has reports keyword presence.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Clone returns a shallow copy of the node. Nested values are shared; the
// engine only ever rewrites top-level keywords on copies.
func (o Object) Clone() Object {
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Without returns a shallow copy of the node with the given keywords removed.
func (o Object) Without(keys ...string) Object {
	out := o.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Merge copies every keyword of other into o, overwriting existing keys.
// This mirrors the dict-update semantics $ref dereferencing relies on.
func (o Object) Merge(other Object) {
	for k, v := range other {
		o[k] = v
	}
}

// Properties returns the properties keyword as a map of property name to
// schema node.
func (o Object) Properties() (map[string]any, bool) {
	if p, ok := AsObject(o["properties"]); ok {
		return p, true
	}
	return nil, false
}

// Required returns the set of property names listed under required.
func (o Object) Required() map[string]bool {
	l, ok := o.List("required")
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(l))
	for _, v := range l {
		if s, ok := v.(string); ok {
			out[s] = true
		}
	}
	return out
}

// IntKey returns the value of a numeric keyword as an int. JSON numbers
// decode as float64; integral values are narrowed.
func (o Object) IntKey(key string) (int, bool) {
	switch n := o[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
