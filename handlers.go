package schematype

import (
	"fmt"
	"math"
	"sort"

	"github.com/reoring/schematype/ir"
	"github.com/reoring/schematype/jsonschema"
)

func (a *API) boolean(_ jsonschema.Object, _ string) (ir.Type, error) {
	return ir.NewBuiltin("bool"), nil
}

func (a *API) str(_ jsonschema.Object, _ string) (ir.Type, error) {
	return ir.NewBuiltin("str"), nil
}

func (a *API) integer(_ jsonschema.Object, _ string) (ir.Type, error) {
	return ir.NewBuiltin("int"), nil
}

func (a *API) null(_ jsonschema.Object, _ string) (ir.Type, error) {
	return ir.NewBuiltin("None"), nil
}

// number maps JSON's single numeric type onto both target primitives.
func (a *API) number(_ jsonschema.Object, _ string) (ir.Type, error) {
	return ir.NewCombined(ir.NewNative("Union"), ir.NewBuiltin("int"), ir.NewBuiltin("float")), nil
}

// object builds a record from properties, an open string-keyed mapping from
// additionalProperties, or the union of both when the schema carries both.
// The union is an approximation: a true structural intersection of the
// declared fields with the open mapping is not available.
func (a *API) object(schema jsonschema.Object, proposedName string) (ir.Type, error) {
	name := ir.TypeName(schema, proposedName)

	var openMapping ir.Type
	additional := schema["additionalProperties"]
	switch {
	case jsonschema.IsTrue(additional) && a.opts.AdditionalProperties == Always:
		openMapping = ir.NewCombined(ir.NewNative("Dict"), ir.NewBuiltin("str"), ir.NewNative("Any"))
	default:
		if sub, ok := jsonschema.AsObject(additional); ok {
			subType, err := a.typeOf(sub, proposedName+" additionalProperties", true)
			if err != nil {
				return nil, err
			}
			openMapping = ir.NewCombined(ir.NewNative("Dict"), ir.NewBuiltin("str"), subType)
		}
	}

	if title, ok := schema.Title(); ok {
		proposedName = title
	}

	props, _ := schema.Properties()
	if len(props) > 0 {
		required := schema.Required()
		fields := make([]ir.Field, 0, len(props))
		for _, prop := range sortedKeys(props) {
			fieldType, err := a.typeOf(props[prop], proposedName+" "+prop, false)
			if err != nil {
				return nil, err
			}
			if required[prop] {
				comments := fieldType.Comments()
				if len(comments) > 0 {
					comments = append(comments, "")
				}
				fieldType.SetComments(append(comments, "required"))
			}
			fields = append(fields, ir.Field{Name: prop, Type: fieldType})
		}

		structName := name
		descriptions := ir.Description(schema)
		if openMapping != nil {
			structName = name + "Typed"
			descriptions = nil
		}
		var typ ir.Type = ir.NewStruct(structName, fields, descriptions)

		comments := []string{
			"WARNING: `required` is not enforced at the type level;",
			"every field is modeled as optional.",
		}
		if openMapping != nil {
			typ = ir.NewCombined(ir.NewNative("Union"), openMapping, typ)
			comments = append(comments, "",
				"WARNING: additional properties cannot be intersected with the",
				"declared fields, so the open mapping is unioned with the record.")
		}
		typ.SetComments(comments)
		return typ, nil
	}

	if openMapping != nil {
		return openMapping, nil
	}
	return ir.NewCombined(ir.NewNative("Dict"), ir.NewBuiltin("str"), ir.NewNative("Any")), nil
}

// array handles the three items shapes. `items: false` aborts: an array
// whose items match nothing has no honest type. A missing items keyword
// degrades to a commented list-of-any. Tuple semantics are only exact when
// minItems and maxItems pin the arity to the schema list's length.
func (a *API) array(schema jsonschema.Object, proposedName string) (ir.Type, error) {
	items := schema["items"]
	if jsonschema.IsFalse(items) {
		return nil, ErrItemsFalse
	}
	if jsonschema.IsTrue(items) {
		return ir.NewCombined(ir.NewNative("List"), ir.NewNative("Any")), nil
	}

	if list, ok := items.([]any); ok {
		inner := make([]ir.Type, 0, len(list))
		for i, item := range list {
			typ, err := a.typeOf(item, fmt.Sprintf("%s item%d", proposedName, i), true)
			if err != nil {
				return nil, err
			}
			inner = append(inner, typ)
		}
		typ := ir.NewCombined(ir.NewNative("Tuple"), inner...)
		minItems, hasMin := schema.IntKey("minItems")
		maxItems, hasMax := schema.IntKey("maxItems")
		if !(hasMin && hasMax && minItems == len(list) && maxItems == len(list)) {
			typ.SetComments([]string{
				"WARNING: tuple semantics are only exact when the arity is pinned",
				"with minItems == maxItems == the number of item schemas.",
			})
		}
		return typ, nil
	}

	if itemObj, ok := jsonschema.AsObject(items); ok {
		typ, err := a.typeOf(itemObj, proposedName+" item", true)
		if err != nil {
			return nil, err
		}
		return ir.NewCombined(ir.NewNative("List"), typ), nil
	}

	typ := ir.NewCombined(ir.NewNative("List"), ir.NewNative("Any"))
	typ.SetComments([]string{"WARNING: we got an array schema without any items"})
	return typ, nil
}

// defaulted infers a primitive from the runtime kind of the default value.
// Default-value semantics are never enforced by the emitted type; the
// comment keeps the gap visible.
func (a *API) defaulted(schema jsonschema.Object) (ir.Type, error) {
	var typ ir.Type
	switch v := schema["default"].(type) {
	case string:
		typ = ir.NewBuiltin("str")
	case bool:
		typ = ir.NewBuiltin("bool")
	case float64:
		if v == math.Trunc(v) {
			typ = ir.NewBuiltin("int")
		} else {
			typ = ir.NewBuiltin("float")
		}
	default:
		typ = ir.NewNative("Any")
	}
	typ.SetComments([]string{"WARNING: the `default` keyword is not enforced by the type."})
	return typ, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
