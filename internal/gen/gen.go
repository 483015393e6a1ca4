// Package gen is the reference renderer for a translated IR forest: it
// deduplicates declaration names, applies configured renames, collects
// imports, orders declarations so dependencies come first, and emits one
// typing-stub file.
package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/schematype/ir"
)

// Options configures one rendered file.
type Options struct {
	// Headers is emitted verbatim at the top of the file.
	Headers string
	// NameMapping renames named declarations (synthesized name -> wanted
	// name) before deduplication.
	NameMapping map[string]string
}

// DefaultHeaders matches the original tooling convention for generated files.
const DefaultHeaders = "# Automatically generated file from a JSON schema"

// Render emits the declarations reachable from roots.
func Render(roots []ir.Type, opts Options) (string, error) {
	ordered := declarationOrder(roots)
	applyNameMapping(ordered, opts.NameMapping)
	deduplicate(ordered)

	var b strings.Builder
	headers := opts.Headers
	if headers == "" {
		headers = DefaultHeaders
	}
	b.WriteString(headers)
	b.WriteString("\n")

	if imports := collectImports(roots); len(imports) > 0 {
		b.WriteString("\n")
		for _, line := range imports {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	for _, node := range ordered {
		lines := node.Definition()
		if len(lines) == 0 {
			continue
		}
		// A declaration's leading blank lines come first, then the node's
		// own comments, then the declaration body.
		body := lines
		for len(body) > 0 && body[0] == "" {
			b.WriteString("\n")
			body = body[1:]
		}
		for _, c := range node.Comments() {
			if c == "" {
				b.WriteString("#\n")
				continue
			}
			b.WriteString("# " + c + "\n")
		}
		for _, line := range body {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// declarationOrder returns every named node reachable from roots, post-order
// over DependsOn so each dependency is declared before its dependents. True
// cycles terminate through the visited set; the cycle member that is still in
// flight is referenced by its quoted name instead.
func declarationOrder(roots []ir.Type) []ir.Named {
	var ordered []ir.Named
	visited := map[ir.Type]bool{}

	var walk func(ir.Type)
	walk = func(t ir.Type) {
		if t == nil || visited[t] {
			return
		}
		visited[t] = true
		for _, dep := range t.DependsOn() {
			walk(dep)
		}
		if named, ok := t.(ir.Named); ok {
			ordered = append(ordered, named)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return ordered
}

func applyNameMapping(nodes []ir.Named, mapping map[string]string) {
	if len(mapping) == 0 {
		return
	}
	for _, node := range nodes {
		if wanted, ok := mapping[node.Identifier()]; ok {
			node.SetIdentifier(wanted)
		}
	}
}

// deduplicate gives colliding declaration identifiers a numeric postfix so
// no two declarations in the file collide.
func deduplicate(nodes []ir.Named) {
	seen := map[string]int{}
	for _, node := range nodes {
		name := node.Identifier()
		if n := seen[name]; n > 0 {
			node.PostfixIdentifier(fmt.Sprintf("Gen%d", n))
		}
		seen[name]++
	}
}

// collectImports unions the imports of every reachable node into sorted
// `from module import a, b` lines.
func collectImports(roots []ir.Type) []string {
	symbols := map[string]map[string]bool{}
	visited := map[ir.Type]bool{}

	var walk func(ir.Type)
	walk = func(t ir.Type) {
		if t == nil || visited[t] {
			return
		}
		visited[t] = true
		for _, imp := range t.Imports() {
			if symbols[imp.Module] == nil {
				symbols[imp.Module] = map[string]bool{}
			}
			symbols[imp.Module][imp.Symbol] = true
		}
		for _, dep := range t.DependsOn() {
			walk(dep)
		}
	}
	for _, root := range roots {
		walk(root)
	}

	modules := make([]string, 0, len(symbols))
	for m := range symbols {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	lines := make([]string, 0, len(modules))
	for _, m := range modules {
		names := make([]string, 0, len(symbols[m]))
		for s := range symbols[m] {
			names = append(names, s)
		}
		sort.Strings(names)
		lines = append(lines, fmt.Sprintf("from %s import %s", m, strings.Join(names, ", ")))
	}
	return lines
}
