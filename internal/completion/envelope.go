package completion

import "encoding/json"

// Envelope is the raw response body from the remote service. Its shape is
// not contractually stable: across revisions the answer text has appeared
// under result.response, under a top-level response field, or as a bare
// JSON string. Extraction is therefore a tagged-priority lookup over the
// generic value rather than a typed response schema.
type Envelope []byte

// Text extracts the single best-effort answer string, in priority order:
//
//  1. result.response, if present and non-empty
//  2. top-level response, if present and non-empty
//  3. the stringified envelope itself
//
// Text never fails; the worst case is a diagnostic stringification of the
// whole payload.
func (e Envelope) Text() string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(e, &obj); err == nil {
		if raw, ok := obj["result"]; ok {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(raw, &nested); err == nil {
				if s := asString(nested["response"]); s != "" {
					return s
				}
			}
		}
		if s := asString(obj["response"]); s != "" {
			return s
		}
	}

	// Bare top-level string
	var s string
	if err := json.Unmarshal(e, &s); err == nil && s != "" {
		return s
	}

	return string(e)
}

func asString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
