package schematype_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/schematype"
	"github.com/reoring/schematype/ir"
	"github.com/reoring/schematype/jsonschema"
)

func newAPI(doc any, opts schematype.Options) *schematype.API {
	return schematype.New(schematype.Draft7, jsonschema.NewResolver("", doc), opts)
}

func translate(t *testing.T, schema any, name string) ir.Type {
	t.Helper()
	typ, err := newAPI(schema, schematype.Options{}).TypeOf(schema, name)
	if err != nil {
		t.Fatalf("TypeOf: %v", err)
	}
	return typ
}

func TestTypeOf_BooleanSchemas(t *testing.T) {
	if got := translate(t, true, "base").Name(); got != "Any" {
		t.Fatalf("true schema: got %q", got)
	}
	if got := translate(t, false, "base").Name(); got != "None" {
		t.Fatalf("false schema: got %q", got)
	}
}

func TestTypeOf_Primitives(t *testing.T) {
	cases := []struct {
		typ  string
		want string
	}{
		{"string", "str"},
		{"integer", "int"},
		{"boolean", "bool"},
		{"null", "None"},
		{"number", "Union[int, float]"},
	}
	for _, c := range cases {
		got := translate(t, jsonschema.Object{"type": c.typ}, "base")
		if got.Name() != c.want {
			t.Fatalf("type %q: got %q, want %q", c.typ, got.Name(), c.want)
		}
	}
}

func TestTypeOf_Const(t *testing.T) {
	if got := translate(t, jsonschema.Object{"const": "red"}, "base").Name(); got != `"red"` {
		t.Fatalf("got %s", got)
	}
	if got := translate(t, jsonschema.Object{"const": float64(42)}, "base").Name(); got != "42" {
		t.Fatalf("got %s", got)
	}
	if got := translate(t, jsonschema.Object{"const": true}, "base").Name(); got != "True" {
		t.Fatalf("got %s", got)
	}
}

func TestTypeOf_EnumWinsOverType(t *testing.T) {
	schema := jsonschema.Object{
		"title": "Color",
		"type":  "string",
		"enum":  []any{"red", "green", "blue"},
	}
	typ := translate(t, schema, "base")
	e, ok := typ.(*ir.Enum)
	if !ok {
		t.Fatalf("expected an enum, got %T", typ)
	}
	if e.Identifier() != "Color" {
		t.Fatalf("got identifier %q", e.Identifier())
	}
	if len(e.Values) != 3 {
		t.Fatalf("got %d values", len(e.Values))
	}
}

func TestTypeOf_EmptyEnumFails(t *testing.T) {
	schema := jsonschema.Object{"enum": []any{}}
	_, err := newAPI(schema, schematype.Options{}).TypeOf(schema, "base")
	if !errors.Is(err, ir.ErrEmptyEnum) {
		t.Fatalf("expected ErrEmptyEnum, got %v", err)
	}
}

func TestTypeOf_ObjectStruct(t *testing.T) {
	schema := jsonschema.Object{
		"title": "Config",
		"type":  "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
		"required": []any{"name"},
	}
	typ := translate(t, schema, "base")
	s, ok := typ.(*ir.Struct)
	if !ok {
		t.Fatalf("expected a struct, got %T", typ)
	}
	if s.Identifier() != "Config" {
		t.Fatalf("got identifier %q", s.Identifier())
	}
	if len(s.Fields) != 2 || s.Fields[0].Name != "count" || s.Fields[1].Name != "name" {
		t.Fatalf("fields must be sorted by property name: %+v", s.Fields)
	}
	found := false
	for _, line := range s.Fields[1].Type.Comments() {
		if line == "required" {
			found = true
		}
	}
	if !found {
		t.Fatalf("required fields must be marked in the field comments: %v", s.Fields[1].Type.Comments())
	}
	joined := strings.Join(s.Comments(), "\n")
	if !strings.Contains(joined, "`required` is not enforced") {
		t.Fatalf("missing required warning: %q", joined)
	}
}

func TestTypeOf_ObjectAdditionalProperties(t *testing.T) {
	bare := jsonschema.Object{"type": "object"}
	if got := translate(t, bare, "base").Name(); got != "Dict[str, Any]" {
		t.Fatalf("bare object: got %q", got)
	}

	typedValues := jsonschema.Object{
		"type":                 "object",
		"additionalProperties": map[string]any{"type": "string"},
	}
	if got := translate(t, typedValues, "base").Name(); got != "Dict[str, str]" {
		t.Fatalf("typed mapping: got %q", got)
	}

	open := jsonschema.Object{"type": "object", "additionalProperties": true}
	typ, err := newAPI(open, schematype.Options{AdditionalProperties: schematype.Always}).TypeOf(open, "base")
	if err != nil {
		t.Fatalf("TypeOf: %v", err)
	}
	if typ.Name() != "Dict[str, Any]" {
		t.Fatalf("Always policy: got %q", typ.Name())
	}
	if got := translate(t, open, "base").Name(); got != "Dict[str, Any]" {
		t.Fatalf("OnlyExplicit policy on a bare object: got %q", got)
	}
}

func TestTypeOf_ObjectWithPropertiesAndOpenMapping(t *testing.T) {
	schema := jsonschema.Object{
		"title": "Labels",
		"type":  "object",
		"properties": map[string]any{
			"app": map[string]any{"type": "string"},
		},
		"additionalProperties": map[string]any{"type": "string"},
	}
	typ := translate(t, schema, "base")
	a, ok := typ.(*ir.Alias)
	if !ok {
		t.Fatalf("expected an aliased union, got %T", typ)
	}
	if a.Identifier() != "Labels" {
		t.Fatalf("got identifier %q", a.Identifier())
	}
	c, ok := a.Target.(*ir.Combined)
	if !ok {
		t.Fatalf("expected a union, got %T", a.Target)
	}
	if len(c.Args) != 2 {
		t.Fatalf("got %d branches", len(c.Args))
	}
	s, ok := c.Args[1].(*ir.Struct)
	if !ok {
		t.Fatalf("second branch must be the record, got %T", c.Args[1])
	}
	if s.Identifier() != "LabelsTyped" {
		t.Fatalf("got identifier %q", s.Identifier())
	}
	joined := strings.Join(a.Descriptions, "\n")
	if !strings.Contains(joined, "additional properties cannot be intersected") {
		t.Fatalf("missing union warning: %q", joined)
	}
}

func TestTypeOf_ArrayItems(t *testing.T) {
	list := jsonschema.Object{"type": "array", "items": map[string]any{"type": "integer"}}
	if got := translate(t, list, "base").Name(); got != "List[int]" {
		t.Fatalf("object items: got %q", got)
	}

	anything := jsonschema.Object{"type": "array", "items": true}
	if got := translate(t, anything, "base").Name(); got != "List[Any]" {
		t.Fatalf("items true: got %q", got)
	}

	missing := jsonschema.Object{"type": "array"}
	typ := translate(t, missing, "Things")
	a, ok := typ.(*ir.Alias)
	if !ok {
		t.Fatalf("a commented list must be aliased so the warning has a home, got %T", typ)
	}
	if a.Identifier() != "_Things" {
		t.Fatalf("names synthesized from a proposed name are marked internal, got %q", a.Identifier())
	}
	if a.Target.Name() != "List[Any]" {
		t.Fatalf("got target %q", a.Target.Name())
	}
	if !strings.Contains(strings.Join(a.Descriptions, "\n"), "without any items") {
		t.Fatalf("missing warning: %v", a.Descriptions)
	}
}

func TestTypeOf_ArrayItemsFalse(t *testing.T) {
	schema := jsonschema.Object{"type": "array", "items": false}
	_, err := newAPI(schema, schematype.Options{}).TypeOf(schema, "base")
	if !errors.Is(err, schematype.ErrItemsFalse) {
		t.Fatalf("expected ErrItemsFalse, got %v", err)
	}
}

func TestTypeOf_TupleArity(t *testing.T) {
	items := []any{
		map[string]any{"type": "string"},
		map[string]any{"type": "integer"},
	}

	pinned := jsonschema.Object{
		"type":     "array",
		"items":    items,
		"minItems": float64(2),
		"maxItems": float64(2),
	}
	typ := translate(t, pinned, "Pinned")
	a, ok := typ.(*ir.Alias)
	if !ok {
		t.Fatalf("minItems and maxItems surface as description text, got %T", typ)
	}
	if a.Target.Name() != "Tuple[str, int]" {
		t.Fatalf("got %q", a.Target.Name())
	}
	if strings.Contains(strings.Join(a.Descriptions, "\n"), "arity is pinned") {
		t.Fatalf("a pinned tuple must not carry the arity warning: %v", a.Descriptions)
	}

	loose := jsonschema.Object{"type": "array", "items": items}
	a, ok = translate(t, loose, "Pair").(*ir.Alias)
	if !ok {
		t.Fatalf("an unpinned tuple must carry the arity warning")
	}
	if !strings.Contains(strings.Join(a.Descriptions, "\n"), "arity is pinned") {
		t.Fatalf("missing warning: %v", a.Descriptions)
	}
}

func TestTypeOf_TypeArray(t *testing.T) {
	schema := jsonschema.Object{"type": []any{"string", "null"}}
	if got := translate(t, schema, "base").Name(); got != "Union[str, None]" {
		t.Fatalf("got %q", got)
	}
}

func TestTypeOf_UnsupportedType(t *testing.T) {
	schema := jsonschema.Object{"type": "frobnicate"}
	_, err := newAPI(schema, schematype.Options{}).TypeOf(schema, "base")
	if !errors.Is(err, schematype.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}

	schema = jsonschema.Object{"type": float64(3)}
	_, err = newAPI(schema, schematype.Options{}).TypeOf(schema, "base")
	if !errors.Is(err, schematype.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTypeOf_NoTypeFallsToBottom(t *testing.T) {
	typ := translate(t, jsonschema.Object{}, "Mystery")
	a, ok := typ.(*ir.Alias)
	if !ok {
		t.Fatalf("expected an aliased bottom type, got %T", typ)
	}
	if a.Target.Name() != "None" {
		t.Fatalf("got target %q", a.Target.Name())
	}
	if !strings.Contains(strings.Join(a.Descriptions, "\n"), "without any type") {
		t.Fatalf("missing warning: %v", a.Descriptions)
	}
}

func TestTypeOf_DefaultInference(t *testing.T) {
	cases := []struct {
		def  any
		want string
	}{
		{"x", "str"},
		{true, "bool"},
		{float64(3), "int"},
		{float64(3.5), "float"},
		{[]any{}, "Any"},
	}
	for _, c := range cases {
		typ := translate(t, jsonschema.Object{"default": c.def}, "base")
		a, ok := typ.(*ir.Alias)
		if !ok {
			t.Fatalf("default %v: the warning must be aliased, got %T", c.def, typ)
		}
		if a.Target.Name() != c.want {
			t.Fatalf("default %v: got %q, want %q", c.def, a.Target.Name(), c.want)
		}
	}
}

func TestTypeOf_CompositionKeywords(t *testing.T) {
	anyOf := jsonschema.Object{"anyOf": []any{
		map[string]any{"type": "string"},
		map[string]any{"type": "integer"},
	}}
	if got := translate(t, anyOf, "base").Name(); got != "Union[str, int]" {
		t.Fatalf("anyOf: got %q", got)
	}

	oneOf := jsonschema.Object{"oneOf": []any{
		map[string]any{"type": "boolean"},
		map[string]any{"type": "null"},
	}}
	if got := translate(t, oneOf, "base").Name(); got != "Union[bool, None]" {
		t.Fatalf("oneOf: got %q", got)
	}

	allOf := jsonschema.Object{"allOf": []any{
		map[string]any{"type": "string"},
		map[string]any{"type": "integer"},
	}}
	a, ok := translate(t, allOf, "Both").(*ir.Alias)
	if !ok {
		t.Fatalf("allOf must carry its approximation warning")
	}
	if a.Target.Name() != "Union[str, int]" {
		t.Fatalf("got target %q", a.Target.Name())
	}
	if !strings.Contains(strings.Join(a.Descriptions, "\n"), "approximated as a union") {
		t.Fatalf("missing warning: %v", a.Descriptions)
	}
}

func TestTypeOf_RefCacheSharesNodes(t *testing.T) {
	doc := jsonschema.Object{
		"definitions": map[string]any{
			"color": map[string]any{
				"title": "Color",
				"enum":  []any{"red", "green"},
			},
		},
	}
	api := newAPI(doc, schematype.Options{})

	first, err := api.TypeOf(jsonschema.Object{"$ref": "#/definitions/color"}, "a")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := api.TypeOf(jsonschema.Object{"$ref": "#/definitions/color"}, "b")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Fatalf("a reference must translate to one shared node")
	}
}

func TestTypeOf_RefMergesSiblingKeywords(t *testing.T) {
	doc := jsonschema.Object{
		"definitions": map[string]any{
			"base": map[string]any{"type": "string"},
		},
	}
	schema := jsonschema.Object{"$ref": "#/definitions/base", "title": "Named"}
	typ, err := newAPI(doc, schematype.Options{}).TypeOf(schema, "fallback")
	if err != nil {
		t.Fatalf("TypeOf: %v", err)
	}
	a, ok := typ.(*ir.Alias)
	if !ok {
		t.Fatalf("a titled primitive becomes an alias, got %T", typ)
	}
	if a.Identifier() != "Named" {
		t.Fatalf("sibling title must survive dereferencing, got %q", a.Identifier())
	}
	if a.Target.Name() != "str" {
		t.Fatalf("got target %q", a.Target.Name())
	}
}

func TestTypeOf_SelfReferencePlaceholder(t *testing.T) {
	doc := jsonschema.Object{
		"type": "object",
		"properties": map[string]any{
			"child": map[string]any{"$ref": "#"},
		},
	}
	typ := translate(t, doc, "Node")
	s, ok := typ.(*ir.Struct)
	if !ok {
		t.Fatalf("expected a struct, got %T", typ)
	}
	field := s.Fields[0].Type
	if !strings.Contains(strings.Join(field.Comments(), "\n"), "recursive self-reference") {
		t.Fatalf("missing placeholder warning: %v", field.Comments())
	}
}

func TestTypeOf_UnresolvableRef(t *testing.T) {
	schema := jsonschema.Object{"$ref": "#/definitions/missing"}
	_, err := newAPI(jsonschema.Object{}, schematype.Options{}).TypeOf(schema, "base")
	if !errors.Is(err, jsonschema.ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable, got %v", err)
	}
}

func TestTypeOf_ExternalDocument(t *testing.T) {
	root := jsonschema.Object{}
	resolver := jsonschema.NewResolver("http://example.com/root.json", root)
	resolver.AddDocument("http://example.com/colors.json", jsonschema.Object{
		"definitions": map[string]any{
			"color": map[string]any{"title": "Color", "enum": []any{"red"}},
		},
	})
	api := schematype.New(schematype.Draft7, resolver, schematype.Options{})

	typ, err := api.TypeOf(jsonschema.Object{"$ref": "colors.json#/definitions/color"}, "base")
	if err != nil {
		t.Fatalf("TypeOf: %v", err)
	}
	e, ok := typ.(*ir.Enum)
	if !ok {
		t.Fatalf("expected an enum, got %T", typ)
	}
	if e.Identifier() != "Color" {
		t.Fatalf("got identifier %q", e.Identifier())
	}
}

func TestTypeOf_Conditional(t *testing.T) {
	schema := jsonschema.Object{
		"title": "Event",
		"type":  "object",
		"if": map[string]any{
			"properties": map[string]any{"kind": map[string]any{"const": "click"}},
		},
		"then": map[string]any{
			"properties": map[string]any{"target": map[string]any{"type": "string"}},
		},
		"else": map[string]any{
			"properties": map[string]any{"code": map[string]any{"type": "integer"}},
		},
	}
	typ := translate(t, schema, "base")
	a, ok := typ.(*ir.Alias)
	if !ok {
		t.Fatalf("the titled conditional becomes an aliased union, got %T", typ)
	}
	if a.Identifier() != "Event" {
		t.Fatalf("got identifier %q", a.Identifier())
	}
	c, ok := a.Target.(*ir.Combined)
	if !ok {
		t.Fatalf("if/then/else translates to a union, got %T", a.Target)
	}
	if len(c.Args) != 2 {
		t.Fatalf("got %d branches", len(c.Args))
	}
	then, ok := c.Args[0].(*ir.Struct)
	if !ok {
		t.Fatalf("then branch: got %T", c.Args[0])
	}
	if then.Identifier() != "_EventThen" {
		t.Fatalf("branch names derive from the proposed name and are internal, got %q", then.Identifier())
	}
	if len(then.Fields) != 2 || then.Fields[0].Name != "kind" || then.Fields[1].Name != "target" {
		t.Fatalf("the if branch's properties must fold into then: %+v", then.Fields)
	}
	els, ok := c.Args[1].(*ir.Struct)
	if !ok {
		t.Fatalf("else branch: got %T", c.Args[1])
	}
	if els.Identifier() != "_EventElse" {
		t.Fatalf("got identifier %q", els.Identifier())
	}
	if len(els.Fields) != 1 || els.Fields[0].Name != "code" {
		t.Fatalf("else branch fields: %+v", els.Fields)
	}
}

func TestTypeOf_SelfIdentifiedDocument(t *testing.T) {
	doc := jsonschema.Object{
		"$id":  "https://example.com/root.json",
		"type": "object",
		"properties": map[string]any{
			"color": map[string]any{"$ref": "#/definitions/color"},
		},
		"definitions": map[string]any{
			"color": map[string]any{"title": "Color", "enum": []any{"red", "green"}},
		},
	}
	typ := translate(t, doc, "Root")
	s, ok := typ.(*ir.Struct)
	if !ok {
		t.Fatalf("expected a struct, got %T", typ)
	}
	e, ok := s.Fields[0].Type.(*ir.Enum)
	if !ok {
		t.Fatalf("a same-document ref must resolve under the root $id scope, got %T", s.Fields[0].Type)
	}
	if e.Identifier() != "Color" {
		t.Fatalf("got identifier %q", e.Identifier())
	}
}

func TestTypeOf_IDScopesNestedRefs(t *testing.T) {
	resolver := jsonschema.NewResolver("http://example.com/root.json", jsonschema.Object{})
	resolver.AddDocument("http://example.com/nested/defs.json", jsonschema.Object{
		"definitions": map[string]any{
			"flag": map[string]any{"type": "boolean"},
		},
	})
	api := schematype.New(schematype.Draft7, resolver, schematype.Options{})

	schema := jsonschema.Object{
		"$id":  "nested/scope.json",
		"type": "object",
		"properties": map[string]any{
			"flag": map[string]any{"$ref": "defs.json#/definitions/flag"},
		},
	}
	typ, err := api.TypeOf(schema, "Wrapper")
	if err != nil {
		t.Fatalf("TypeOf: %v", err)
	}
	s, ok := typ.(*ir.Struct)
	if !ok {
		t.Fatalf("expected a struct, got %T", typ)
	}
	if s.Fields[0].Type.Name() != "bool" {
		t.Fatalf("relative refs must resolve inside the $id scope, got %q", s.Fields[0].Type.Name())
	}
	if resolver.Scope() != "http://example.com/root.json" {
		t.Fatalf("the scope stack must unwind after translation, got %q", resolver.Scope())
	}
}

func TestDetectDraft(t *testing.T) {
	cases := []struct {
		uri  string
		want schematype.Draft
	}{
		{"http://json-schema.org/draft-04/schema#", schematype.Draft4},
		{"http://json-schema.org/draft-06/schema#", schematype.Draft6},
		{"http://json-schema.org/draft-07/schema#", schematype.Draft7},
		{"", schematype.Draft7},
	}
	for _, c := range cases {
		if got := schematype.DetectDraft(c.uri); got != c.want {
			t.Fatalf("%q: got %s, want %s", c.uri, got, c.want)
		}
	}
	if schematype.Draft4.String() != "draft-04" {
		t.Fatalf("got %q", schematype.Draft4.String())
	}
}
