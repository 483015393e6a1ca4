package schematype

import "errors"

// issueURL is pointed at from warnings about constructs we knowingly cannot
// translate, so generated output tells readers where to push back.
const issueURL = "https://github.com/reoring/schematype/issues"

var (
	// ErrUnsupportedType indicates a `type` value with no handler. The meaning
	// of an unknown type cannot be guessed, so translation of the whole
	// document aborts rather than silently degrading.
	ErrUnsupportedType = errors.New("schematype: unsupported schema type")

	// ErrItemsFalse indicates an array schema with `"items": false`, which has
	// no useful type-level meaning.
	ErrItemsFalse = errors.New(`schematype: "items": false is not supported`)
)
