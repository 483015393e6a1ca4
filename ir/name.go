package ir

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/reoring/schematype/jsonschema"
)

// reservedKeywords is the keyword list of the emission target. Identifiers
// folding onto one of these get a filler suffix.
var reservedKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "false": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "none": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "true": true, "try": true,
	"while": true, "with": true, "yield": true,
}

// Name synthesizes a declaration identifier from an explicit schema title.
func Name(title string) string { return synthesize(title, false, false) }

// ProposedName synthesizes a declaration identifier from a caller-proposed
// name. The leading underscore marks the name as inferred, not authoritative.
func ProposedName(name string) string { return synthesize(name, true, false) }

// MemberName synthesizes an enumeration member identifier from a value.
func MemberName(value string) string { return synthesize(value, false, true) }

// TypeName prefers the schema's own title and falls back to the proposed
// name, marking the latter as internal.
func TypeName(schema jsonschema.Object, proposed string) string {
	if title, ok := schema.Title(); ok {
		return Name(title)
	}
	return ProposedName(proposed)
}

// synthesize is the deterministic name folding shared by declarations and
// enum members: transliterate, strip disallowed characters, guard against a
// leading digit and reserved keywords, then fold to UPPER_SNAKE or
// CapitalizedConcatenated form.
func synthesize(raw string, internal, upper bool) string {
	name := transliterate(raw)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	name = b.String()

	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "num " + name
	}
	if reservedKeywords[strings.ToLower(name)] {
		name += " name"
	}

	prefix := ""
	if internal {
		prefix = "_"
	}
	if upper {
		name = strings.ToUpper(name)
		return prefix + strings.Map(func(r rune) rune {
			if r == ' ' {
				return '_'
			}
			return r
		}, name)
	}
	name = cases.Title(language.Und).String(name)
	return prefix + strings.ReplaceAll(name, " ", "")
}

// transliterate folds text to an ASCII-friendly representation by stripping
// combining marks after canonical decomposition. Characters that do not
// decompose are left for the disallowed-character pass.
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// consumedKeywords are structurally interpreted by the engine and therefore
// excluded from the key/value tail of synthesized descriptions.
var consumedKeywords = map[string]bool{
	"title":                true,
	"description":          true,
	"$ref":                 true,
	"$schema":              true,
	"$id":                  true,
	"const":                true,
	"type":                 true,
	"items":                true,
	"additionalProperties": true,
}

// Description synthesizes comment lines for a schema node: title and
// description first (blank-line separated), then every remaining
// scalar-valued keyword as `key: value`, separated from the text block by a
// blank line.
func Description(schema jsonschema.Object) []string {
	var out []string
	for _, key := range []string{"title", "description"} {
		if v, ok := schema.String(key); ok {
			if len(out) > 0 {
				out = append(out, "")
			}
			out = append(out, strings.Split(v, "\n")...)
		}
	}

	keys := make([]string, 0, len(schema))
	for k := range schema {
		if !consumedKeywords[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	first := true
	for _, k := range keys {
		switch schema[k].(type) {
		case []any, map[string]any, jsonschema.Object:
			continue
		}
		if first {
			if len(out) > 0 {
				out = append(out, "")
			}
			first = false
		}
		out = append(out, fmt.Sprintf("%s: %v", k, schema[k]))
	}
	return out
}
