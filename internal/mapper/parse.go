package mapper

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

type responseShape int

const (
	shapeUnrecognized responseShape = iota
	// shapeLegacyArray is a bare JSON array of match objects.
	shapeLegacyArray
	// shapeMappingsObject is {"mappings": [...], "overall_gap_analysis": "..."}.
	shapeMappingsObject
)

func (s responseShape) String() string {
	switch s {
	case shapeLegacyArray:
		return "legacy_array"
	case shapeMappingsObject:
		return "mappings_object"
	default:
		return "unrecognized"
	}
}

// parsedResponse holds the raw candidates of a recognized response. Candidates stay
// untyped here, decoding happens one candidate at a time.
type parsedResponse struct {
	shape      responseShape
	candidates []any
	// overallGap is the top-level value of the mappings object shape.
	overallGap string
}

// parseResponse never fails on content it does not understand, it reports the
// unrecognized shape with the reason instead.
func parseResponse(raw string) (parsedResponse, error) {
	text := stripCodeFence(raw)

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return parsedResponse{}, fmt.Errorf("decode json: %w", err)
	}

	switch v := decoded.(type) {
	case []any:
		return parsedResponse{shape: shapeLegacyArray, candidates: v}, nil
	case map[string]any:
		mappings, ok := v["mappings"]
		if !ok {
			return parsedResponse{}, fmt.Errorf("object without mappings key")
		}
		list, ok := mappings.([]any)
		if !ok {
			if mappings == nil {
				list = []any{}
			} else {
				return parsedResponse{}, fmt.Errorf("mappings is %T, not an array", mappings)
			}
		}
		gap, _ := v["overall_gap_analysis"].(string)
		return parsedResponse{shape: shapeMappingsObject, candidates: list, overallGap: gap}, nil
	default:
		return parsedResponse{}, fmt.Errorf("unexpected top-level %T", decoded)
	}
}

// stripCodeFence removes a surrounding markdown fence, tagged (```json) or not.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(text, "```"); ok {
		tagEnd := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
		switch {
		case tagEnd < 0:
			rest = ""
		case tagEnd > 0 && (unicode.IsSpace(rune(rest[tagEnd])) || strings.EqualFold(rest[:tagEnd], "json")):
			rest = rest[tagEnd:]
		}
		text = rest
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")

	return strings.TrimSpace(text)
}
