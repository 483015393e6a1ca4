package schematype

import "strings"

// Draft selects the JSON Schema dialect the engine translates.
type Draft int

const (
	Draft4 Draft = iota
	Draft6
	Draft7
)

func (d Draft) String() string {
	switch d {
	case Draft4:
		return "draft-04"
	case Draft6:
		return "draft-06"
	case Draft7:
		return "draft-07"
	default:
		return "draft-unknown"
	}
}

// DetectDraft maps a document's $schema URI onto a Draft. Documents without
// a recognizable dialect get the newest supported draft.
func DetectDraft(schemaURI string) Draft {
	switch {
	case strings.Contains(schemaURI, "draft-04"):
		return Draft4
	case strings.Contains(schemaURI, "draft-06"):
		return Draft6
	default:
		return Draft7
	}
}

// draftHandlers builds the keyword-handler table for a draft. Draft 4
// carries the full set; drafts 6 and 7 changed no keyword that affects the
// produced IR, so they reuse the draft 4 table unchanged.
func (a *API) draftHandlers(d Draft) map[string]handlerFunc {
	table := map[string]handlerFunc{
		"object":  a.object,
		"array":   a.array,
		"string":  a.str,
		"number":  a.number,
		"integer": a.integer,
		"boolean": a.boolean,
		"null":    a.null,
	}
	switch d {
	case Draft6, Draft7:
		// Nothing IR-relevant differs from draft 4.
	}
	return table
}
