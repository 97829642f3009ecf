package recovery

import (
	"encoding/json"
	"strings"
)

// IsComplete judges whether accumulated model text looks finished. It is
// evaluated on the full buffer after each turn.
//
// The policy is deliberately conservative: only text that already parses as
// a single JSON value counts as complete. Everything else, including text
// containing no JSON at all, reports incomplete and costs an extra
// continuation round. That tradeoff favors extra rounds over silently
// accepting malformed output and should not be loosened without validating
// against real model output distributions.
func IsComplete(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	// A syntactically valid single JSON value is finished.
	if json.Valid([]byte(trimmed)) {
		return true
	}

	// Unbalanced braces mean the value was cut off mid-object.
	if strings.Count(trimmed, "{") != strings.Count(trimmed, "}") {
		return false
	}

	// A trailing comma or a dangling quote means the value was cut off
	// mid-list or mid-string.
	if strings.HasSuffix(trimmed, ",") || strings.HasSuffix(trimmed, `"`) {
		return false
	}

	// Conservative default: anything that did not parse is incomplete.
	return false
}
