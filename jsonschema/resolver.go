package jsonschema

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrUnresolvable indicates a $ref that cannot be dereferenced: an unknown
// document with no loader configured, or a JSON Pointer into nothing.
var ErrUnresolvable = errors.New("jsonschema: unresolvable reference")

// Loader fetches an external document by its canonical (fragmentless) URI.
type Loader func(uri string) (any, error)

// Resolver dereferences $ref URIs against a document set while tracking the
// base-URI scope stack that relative references resolve against. It is not
// safe for concurrent use; the engine drives it from a single call stack.
type Resolver struct {
	scopes []string
	docs   map[string]any
	loader Loader
}

// NewResolver returns a resolver rooted at baseURI with doc as the root
// document. baseURI may be empty for anonymous documents. A root document
// that declares its own $id is registered under that identifier too, so
// same-document refs still resolve once the $id becomes the active scope.
func NewResolver(baseURI string, doc any) *Resolver {
	r := &Resolver{
		scopes: []string{baseURI},
		docs:   map[string]any{withoutFragment(baseURI): doc},
	}
	if obj, ok := AsObject(doc); ok {
		if id, ok := obj.ID(); ok && id != "" {
			r.docs[withoutFragment(joinURI(baseURI, id))] = doc
		}
	}
	return r
}

// SetLoader installs a loader for documents outside the root document.
func (r *Resolver) SetLoader(l Loader) { r.loader = l }

// AddDocument registers an already-decoded document under its canonical URI.
func (r *Resolver) AddDocument(uri string, doc any) {
	r.docs[withoutFragment(uri)] = doc
}

// Scope returns the currently active base URI.
func (r *Resolver) Scope() string { return r.scopes[len(r.scopes)-1] }

// PushScope resolves scope against the active base and makes it current.
func (r *Resolver) PushScope(scope string) {
	r.scopes = append(r.scopes, joinURI(r.Scope(), scope))
}

// PopScope drops the innermost scope. Every PushScope must be paired with a
// PopScope, including on error paths.
func (r *Resolver) PopScope() {
	if len(r.scopes) > 1 {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

// Canonical returns ref fully resolved against the active scope, without
// dereferencing it. Engines key their translation cache on this form.
func (r *Resolver) Canonical(ref string) string { return joinURI(r.Scope(), ref) }

// Resolve dereferences ref against the active scope. It returns the fully
// resolved URI, which callers push as the scope while processing the result,
// together with the schema node the reference points at.
func (r *Resolver) Resolve(ref string) (scope string, schema any, err error) {
	full := joinURI(r.Scope(), ref)
	base := withoutFragment(full)
	frag := fragmentOf(full)

	doc, ok := r.docs[base]
	if !ok {
		if r.loader == nil {
			return "", nil, fmt.Errorf("%w: %q (no loader for external document %q)", ErrUnresolvable, ref, base)
		}
		doc, err = r.loader(base)
		if err != nil {
			return "", nil, fmt.Errorf("jsonschema: resolve %q: %w", ref, err)
		}
		r.docs[base] = doc
	}

	node, err := resolvePointer(doc, frag)
	if err != nil {
		return "", nil, fmt.Errorf("jsonschema: resolve %q: %w", ref, err)
	}
	if o, ok := AsObject(node); ok {
		node = o
	}
	return full, node, nil
}

// joinURI resolves ref relative to base per RFC 3986. An empty base leaves
// ref untouched.
func joinURI(base, ref string) string {
	if base == "" {
		return ref
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}

func withoutFragment(uri string) string {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[:i]
	}
	return uri
}

func fragmentOf(uri string) string {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[i+1:]
	}
	return ""
}

// resolvePointer walks a JSON Pointer (RFC 6901) fragment through a decoded
// document. An empty pointer designates the document itself.
func resolvePointer(doc any, pointer string) (any, error) {
	if pointer == "" {
		return doc, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, fmt.Errorf("%w: malformed pointer %q", ErrUnresolvable, pointer)
	}
	node := doc
	for _, token := range strings.Split(pointer[1:], "/") {
		if unescaped, err := url.PathUnescape(token); err == nil {
			token = unescaped
		}
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch n := node.(type) {
		case Object:
			child, ok := n[token]
			if !ok {
				return nil, fmt.Errorf("%w: missing key %q", ErrUnresolvable, token)
			}
			node = child
		case map[string]any:
			child, ok := n[token]
			if !ok {
				return nil, fmt.Errorf("%w: missing key %q", ErrUnresolvable, token)
			}
			node = child
		case []any:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(n) {
				return nil, fmt.Errorf("%w: bad array index %q", ErrUnresolvable, token)
			}
			node = n[i]
		default:
			return nil, fmt.Errorf("%w: cannot descend into %T with %q", ErrUnresolvable, node, token)
		}
	}
	return node, nil
}
