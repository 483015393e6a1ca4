package schematype

import (
	"fmt"

	"github.com/reoring/schematype/ir"
	"github.com/reoring/schematype/jsonschema"
)

// handlerFunc translates one schema node whose `type` value selected it.
type handlerFunc func(schema jsonschema.Object, proposedName string) (ir.Type, error)

// API is the translation engine for one draft dialect. It owns the
// translation cache that guarantees at-most-one IR node per distinct
// reference, which is also what breaks recursion on referenced schemas.
// An API is not safe for concurrent use; translation is a single synchronous
// recursive descent.
type API struct {
	draft    Draft
	resolver *jsonschema.Resolver
	opts     Options
	handlers map[string]handlerFunc
	refTypes map[string]ir.Type
}

// New returns an engine for the given draft backed by resolver.
func New(draft Draft, resolver *jsonschema.Resolver, opts Options) *API {
	a := &API{
		draft:    draft,
		resolver: resolver,
		opts:     opts,
		refTypes: map[string]ir.Type{},
	}
	a.handlers = a.draftHandlers(draft)
	return a
}

// Draft reports the dialect the engine was built for.
func (a *API) Draft() Draft { return a.draft }

// TypeOf translates a schema node into an IR type. proposedName is used only
// when the schema carries no title of its own.
func (a *API) TypeOf(schema any, proposedName string) (ir.Type, error) {
	return a.typeOf(schema, proposedName, true)
}

// typeOf handles the boolean schema forms, delegates object schemas to
// dispatch, then merges description text onto the result. Unnamed nodes that
// end up carrying text are wrapped in an alias so the text has a declaration
// to live on, unless the caller opted out (struct fields do, so the text
// becomes a field comment instead).
func (a *API) typeOf(schema any, proposedName string, autoAlias bool) (ir.Type, error) {
	if jsonschema.IsTrue(schema) {
		return ir.NewNative("Any"), nil
	}
	if jsonschema.IsFalse(schema) {
		return ir.NewBuiltin("None"), nil
	}
	obj, ok := jsonschema.AsObject(schema)
	if !ok {
		return nil, fmt.Errorf("schematype: schema node must be an object or a boolean (got %T)", schema)
	}

	typ, err := a.dispatch(obj, proposedName)
	if err != nil {
		return nil, err
	}

	description := ir.Description(obj)
	if extra := typ.Comments(); len(extra) > 0 {
		if len(description) > 0 {
			description = append(description, "")
		}
		description = append(description, extra...)
	}
	if _, isNamed := typ.(ir.Named); !isNamed && len(description) > 0 {
		if autoAlias {
			return ir.NewAlias(ir.TypeName(obj, proposedName), typ, description), nil
		}
		typ.SetComments(description)
	}
	return typ, nil
}

// dispatch is the keyword dispatch of the engine: if/then/else rewriting
// first, then $ref, const, the type keyword (string or array form), and
// finally the composition keywords for schemas without a type.
func (a *API) dispatch(schema jsonschema.Object, proposedName string) (ir.Type, error) {
	if scope, ok := schema.ID(); ok && scope != "" {
		a.resolver.PushScope(scope)
		defer a.resolver.PopScope()
	}
	if title, ok := schema.Title(); ok {
		proposedName = title
	}

	if schema.Has("if") {
		return a.conditional(schema, proposedName)
	}
	if _, ok := schema.Ref(); ok {
		return a.ref(schema, proposedName)
	}
	if schema.Has("const") {
		return ir.NewLiteral(schema["const"]), nil
	}

	switch t := schema["type"].(type) {
	case string:
		return a.typed(schema, t, proposedName)
	case []any:
		// Every branch translates a title-free copy so no branch claims the
		// schema's name for itself.
		branch := schema.Without("title")
		inner := make([]ir.Type, 0, len(t))
		for _, entry := range t {
			name, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string entry %v in type array", ErrUnsupportedType, entry)
			}
			one, err := a.typed(branch, name, fmt.Sprintf("%s %s", proposedName, name))
			if err != nil {
				return nil, err
			}
			inner = append(inner, one)
		}
		return ir.NewCombined(ir.NewNative("Union"), inner...), nil
	case nil:
		if subs, ok := schema.List("allOf"); ok {
			return a.allOf(subs, proposedName)
		}
		if subs, ok := schema.List("anyOf"); ok {
			return a.union(subs, proposedName, "anyof")
		}
		if subs, ok := schema.List("oneOf"); ok {
			return a.union(subs, proposedName, "oneof")
		}
		if schema.Has("enum") {
			return a.enum(schema, proposedName)
		}
		if schema.Has("default") {
			return a.defaulted(schema)
		}
		typ := ir.NewBuiltin("None")
		typ.SetComments([]string{"WARNING: we got a schema without any type"})
		return typ, nil
	default:
		return nil, fmt.Errorf("%w: the type keyword must be a string or an array (got %T)", ErrUnsupportedType, schema["type"])
	}
}

// typed dispatches a single type string through the draft's handler table.
func (a *API) typed(schema jsonschema.Object, typeName, proposedName string) (ir.Type, error) {
	if title, ok := schema.Title(); ok {
		proposedName = title
	}
	// Enum values win over the declared primitive type, even when they are
	// inconsistent with it. That is a malformed schema and is not validated
	// further here.
	if schema.Has("enum") {
		return a.enum(schema, proposedName)
	}
	handler, ok := a.handlers[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q (raise an issue at %s if you believe this to be in error)", ErrUnsupportedType, typeName, issueURL)
	}
	return handler(schema, proposedName)
}

// conditional rewrites if/then/else ahead of any other dispatch: both
// branches start from the schema minus the conditional keywords, merged with
// the dereferenced then/else schema; the `if` branch's properties fold into
// the then branch. The result is the union of the two branches.
func (a *API) conditional(schema jsonschema.Object, proposedName string) (ir.Type, error) {
	base := schema.Without("if", "then", "else", "title", "description")

	thenSchema := base.Clone()
	resolvedThen, err := a.materialize(schema["then"])
	if err != nil {
		return nil, err
	}
	thenSchema.Merge(resolvedThen)

	props := jsonschema.Object{}
	if existing, ok := jsonschema.AsObject(thenSchema["properties"]); ok {
		props = existing.Clone()
	}
	resolvedIf, err := a.materialize(schema["if"])
	if err != nil {
		return nil, err
	}
	if ifProps, ok := jsonschema.AsObject(resolvedIf["properties"]); ok {
		props.Merge(ifProps)
	}
	thenSchema["properties"] = map[string]any(props)

	elseSchema := base.Clone()
	resolvedElse, err := a.materialize(schema["else"])
	if err != nil {
		return nil, err
	}
	elseSchema.Merge(resolvedElse)

	thenType, err := a.typeOf(thenSchema, proposedName+" then", true)
	if err != nil {
		return nil, err
	}
	elseType, err := a.typeOf(elseSchema, proposedName+" else", true)
	if err != nil {
		return nil, err
	}
	return ir.NewCombined(ir.NewNative("Union"), thenType, elseType), nil
}

// materialize returns v as an object schema, dereferencing a $ref in place.
// Absent or non-object branches become the empty schema.
func (a *API) materialize(v any) (jsonschema.Object, error) {
	obj, ok := jsonschema.AsObject(v)
	if !ok {
		return jsonschema.Object{}, nil
	}
	ref, ok := obj.Ref()
	if !ok {
		return obj.Clone(), nil
	}
	_, resolved, err := a.resolver.Resolve(ref)
	if err != nil {
		return nil, err
	}
	target, ok := jsonschema.AsObject(resolved)
	if !ok {
		return nil, fmt.Errorf("schematype: $ref %q does not resolve to an object schema", ref)
	}
	merged := obj.Without("$ref")
	merged.Merge(target)
	return merged, nil
}

// ref resolves a $ref ahead of every remaining keyword. The document's own
// root is special-cased: there is no declaration yet that a forward
// reference could target, so it degrades to an open structural placeholder
// with an explicit comment. Everything else goes through the translation
// cache, so the second and later visits share the identical node instance.
func (a *API) ref(schema jsonschema.Object, proposedName string) (ir.Type, error) {
	refURI, _ := schema.Ref()
	if refURI == "#" {
		typ, err := a.object(jsonschema.Object{}, proposedName+" object")
		if err != nil {
			return nil, err
		}
		typ.SetComments([]string{
			"WARNING: a recursive self-reference cannot be translated precisely;",
			"it is replaced with an open mapping placeholder.",
		})
		return typ, nil
	}

	key := a.resolver.Canonical(refURI)
	if cached, ok := a.refTypes[key]; ok {
		return cached, nil
	}

	scope, resolved, err := a.resolver.Resolve(refURI)
	if err != nil {
		return nil, err
	}
	a.resolver.PushScope(scope)
	defer a.resolver.PopScope()

	target := resolved
	if robj, ok := jsonschema.AsObject(resolved); ok {
		merged := schema.Without("$ref")
		merged.Merge(robj)
		target = any(merged)
	}
	typ, err := a.typeOf(target, proposedName, true)
	if err != nil {
		return nil, err
	}

	a.refTypes[key] = typ
	return typ, nil
}

// enum produces the named closed literal set for an enum schema.
func (a *API) enum(schema jsonschema.Object, proposedName string) (ir.Type, error) {
	values, _ := schema.List("enum")
	e, err := ir.NewEnum(ir.TypeName(schema, proposedName), values, ir.Description(schema))
	if err != nil {
		return nil, fmt.Errorf("schematype: enum %q: %w", proposedName, err)
	}
	return e, nil
}

// allOf is approximated as a union: an exact intersection type is not a
// universal capability of static type systems, and the gap is made visible
// with a comment instead of being hidden.
func (a *API) allOf(subs []any, proposedName string) (ir.Type, error) {
	inner, err := a.branches(subs, proposedName, "allof")
	if err != nil {
		return nil, err
	}
	typ := ir.NewCombined(ir.NewNative("Union"), inner...)
	typ.SetComments([]string{
		"WARNING: an exact intersection type is not available,",
		"so `allOf` is approximated as a union of its branches.",
	})
	return typ, nil
}

// union translates anyOf/oneOf branches into a plain union.
func (a *API) union(subs []any, proposedName, kind string) (ir.Type, error) {
	inner, err := a.branches(subs, proposedName, kind)
	if err != nil {
		return nil, err
	}
	return ir.NewCombined(ir.NewNative("Union"), inner...), nil
}

func (a *API) branches(subs []any, proposedName, kind string) ([]ir.Type, error) {
	inner := make([]ir.Type, 0, len(subs))
	for i, sub := range subs {
		typ, err := a.typeOf(sub, fmt.Sprintf("%s %s%d", proposedName, kind, i), true)
		if err != nil {
			return nil, err
		}
		inner = append(inner, typ)
	}
	return inner, nil
}
