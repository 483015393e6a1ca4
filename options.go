package schematype

// AdditionalProperties controls how `additionalProperties: true` is modeled.
type AdditionalProperties int

const (
	OnlyExplicit AdditionalProperties = iota // Model extra keys only when a subschema constrains them.
	Always                                   // Model `additionalProperties: true` as an open string-keyed mapping.
)

// Options configures an engine instance.
type Options struct {
	AdditionalProperties AdditionalProperties
}
