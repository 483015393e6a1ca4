package schematype

// Package schematype translates JSON Schema documents (draft 4/6/7) into a
// deduplicated, named, dependency-ordered tree of type nodes suitable for
// emitting static type declarations.
//
// - The root package holds the translation engine: draft strategy tables,
//   keyword dispatch, composition operators, and $ref resolution.
// - jsonschema/ models schema documents and hosts the reference resolver
//   (scope stack, JSON Pointer walking, external document loading).
// - ir/ defines the type IR node family plus name/description synthesis.
// - internal/gen holds the reference renderer (name deduplication, import
//   collection, topological emission) and cmd/schematype the CLI.
//
// Typical usage:
//
//	doc, _ := jsonschema.Load("schema.json")
//	api := schematype.New(schematype.Draft7, jsonschema.NewResolver("", doc), schematype.Options{})
//	typ, err := api.TypeOf(doc, "Root")
