// Package ir defines the target-agnostic intermediate representation the
// translation engine produces for a schema node: a small polymorphic node
// family forming a DAG through DependsOn, consumed by renderers for
// dependency-ordered emission and import collection.
package ir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Import is a (module, symbol) pair a node needs wherever its name or
// definition is emitted.
type Import struct {
	Module string
	Symbol string
}

// Type is a target type expression. Nodes are created during one translation
// pass and are immutable afterwards, except for the append-only comment list
// merged onto already-constructed nodes.
type Type interface {
	// Name returns the expression to use at a use-site: a literal name, a
	// bracketed generic instantiation, or a quoted forward reference.
	Name() string
	// Imports returns the imports required by Name and Definition.
	Imports() []Import
	// Definition returns the declaration lines, or nothing for nodes used
	// inline.
	Definition() []string
	// DependsOn returns the immediate child nodes, used to order declarations
	// so every dependency is declared before its dependents.
	DependsOn() []Type
	// Comments returns free-text comment lines attached to the node.
	Comments() []string
	// SetComments replaces the attached comment lines.
	SetComments([]string)
}

// Named is implemented by nodes emitted as their own top-level declaration
// (alias, enum, struct). Renaming is only available until emission.
type Named interface {
	Type
	// Identifier returns the raw declaration identifier.
	Identifier() string
	// SetIdentifier replaces the declaration identifier.
	SetIdentifier(name string)
	// PostfixIdentifier appends to the declaration identifier, used by the
	// renderer's global deduplication pass.
	PostfixIdentifier(postfix string)
}

// base carries the shared comment list and no-op defaults.
type base struct {
	comments []string
}

func (b *base) Imports() []Import      { return nil }
func (b *base) Definition() []string   { return nil }
func (b *base) DependsOn() []Type      { return nil }
func (b *base) Comments() []string     { return b.comments }
func (b *base) SetComments(c []string) { b.comments = c }

// named implements the Named identifier handling. Use-sites see the quoted
// form so true cycles can target the declaration as a forward reference.
type named struct {
	base
	name string
}

func (n *named) Name() string                  { return strconv.Quote(n.name) }
func (n *named) Identifier() string            { return n.name }
func (n *named) SetIdentifier(name string)     { n.name = name }
func (n *named) PostfixIdentifier(post string) { n.name += post }

// Literal is a single fixed scalar value used as its own type.
type Literal struct {
	base
	Const any
}

// NewLiteral wraps a const value.
func NewLiteral(v any) *Literal { return &Literal{Const: v} }

func (l *Literal) Name() string { return formatConst(l.Const) }

// Builtin is a primitive available with no import.
type Builtin struct {
	base
	name string
}

// NewBuiltin returns a builtin primitive reference.
func NewBuiltin(name string) *Builtin { return &Builtin{name: name} }

func (b *Builtin) Name() string { return b.name }

// Native is a type provided by a named external module, imported by symbol.
type Native struct {
	base
	name   string
	module string
}

// NewNative returns a native type from the default typing module.
func NewNative(name string) *Native { return &Native{name: name, module: "typing"} }

// NewNativeFrom returns a native type from an explicit module.
func NewNativeFrom(name, module string) *Native { return &Native{name: name, module: module} }

func (n *Native) Name() string      { return n.name }
func (n *Native) Imports() []Import { return []Import{{Module: n.module, Symbol: n.name}} }

// Combined is a parametric type instantiation: Base applied to an ordered
// sequence of argument types.
type Combined struct {
	base
	Base Type
	Args []Type
}

// NewCombined instantiates base with args.
func NewCombined(b Type, args ...Type) *Combined { return &Combined{Base: b, Args: args} }

func (c *Combined) Name() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.Name()
	}
	return fmt.Sprintf("%s[%s]", c.Base.Name(), strings.Join(parts, ", "))
}

func (c *Combined) DependsOn() []Type {
	return append([]Type{c.Base}, c.Args...)
}

// Alias is a named synonym for another type.
type Alias struct {
	named
	Target       Type
	Descriptions []string
}

// NewAlias declares name as a synonym for target.
func NewAlias(name string, target Type, descriptions []string) *Alias {
	a := &Alias{Target: target, Descriptions: descriptions}
	a.name = name
	return a
}

func (a *Alias) DependsOn() []Type { return []Type{a.Target} }

func (a *Alias) Definition() []string {
	lines := []string{"", ""}
	for _, d := range a.Descriptions {
		lines = append(lines, commentLine(d))
	}
	return append(lines, fmt.Sprintf("%s = %s", a.name, a.Target.Name()))
}

// ErrEmptyEnum indicates an enum schema without any value.
var ErrEmptyEnum = errors.New("ir: enum requires at least one value")

// Enum is a named closed set of literal values. Each value becomes a member
// whose identifier is synthesized from the value itself.
type Enum struct {
	named
	Values       []any
	Descriptions []string
}

// NewEnum declares a closed literal set. At least one value is required.
func NewEnum(name string, values []any, descriptions []string) (*Enum, error) {
	if len(values) == 0 {
		return nil, ErrEmptyEnum
	}
	e := &Enum{Values: values, Descriptions: descriptions}
	e.name = name
	return e, nil
}

func (e *Enum) Imports() []Import { return []Import{{Module: "enum", Symbol: "Enum"}} }

func (e *Enum) Definition() []string {
	lines := []string{"", ""}
	for _, d := range e.Descriptions {
		lines = append(lines, commentLine(d))
	}
	lines = append(lines, fmt.Sprintf("class %s(Enum):", e.name))
	seen := map[string]int{}
	for _, v := range e.Values {
		member := MemberName(memberSource(v))
		if n := seen[member]; n > 0 {
			seen[member] = n + 1
			member = fmt.Sprintf("%s_%d", member, n)
		}
		seen[member]++
		lines = append(lines, fmt.Sprintf("    %s = %s", member, formatConst(v)))
	}
	return lines
}

// Field is one property of a Struct. The field's type node may carry its own
// comments, e.g. "required".
type Field struct {
	Name string
	Type Type
}

// Struct is a named record mapping field names to types. Fields are partial:
// presence is never enforced at the type level, only flagged in comments.
type Struct struct {
	named
	Fields       []Field
	Descriptions []string
}

// NewStruct declares a named record.
func NewStruct(name string, fields []Field, descriptions []string) *Struct {
	s := &Struct{Fields: fields, Descriptions: descriptions}
	s.name = name
	return s
}

func (s *Struct) DependsOn() []Type {
	deps := []Type{NewNative("TypedDict")}
	for _, f := range s.Fields {
		deps = append(deps, f.Type)
	}
	return deps
}

func (s *Struct) Definition() []string {
	lines := []string{"", ""}
	for _, d := range s.Descriptions {
		lines = append(lines, commentLine(d))
	}
	lines = append(lines, fmt.Sprintf("%s = TypedDict('%s', {", s.name, s.name))
	for _, f := range s.Fields {
		for _, c := range f.Type.Comments() {
			if c == "" {
				lines = append(lines, "    #")
				continue
			}
			lines = append(lines, "    # "+c)
		}
		lines = append(lines, fmt.Sprintf("    '%s': %s,", f.Name, f.Type.Name()))
	}
	return append(lines, "}, total=False)")
}

// commentLine renders one description entry as a comment line.
func commentLine(d string) string {
	if d == "" {
		return "#"
	}
	return "# " + d
}

// formatConst renders a literal value as a type expression.
func formatConst(v any) string {
	switch c := v.(type) {
	case string:
		return strconv.Quote(c)
	case bool:
		if c {
			return "True"
		}
		return "False"
	case nil:
		return "None"
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	default:
		return fmt.Sprint(c)
	}
}

// memberSource yields the raw text a member identifier is derived from.
func memberSource(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return formatConst(v)
}
