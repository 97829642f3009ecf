package recovery

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/complyloop/extract-api/internal/domain"
)

// tasksEnvelope is the output shape the extraction prompt asks for.
type tasksEnvelope struct {
	Tasks []domain.ExtractedRecord `json:"tasks"`
}

// Precompiled patterns used by the cascade.
var (
	tasksKeyRegex  = regexp.MustCompile(`"tasks"\s*:\s*\[`)
	taskLineRegex  = regexp.MustCompile(`(?i)^\s*(?:[-*\d.)]+\s*)?(?:task|title)\s*:\s*(.+?)\s*$`)
	titleKeyNeedle = `"title"`
)

// Records recovers structured records from raw model text. It is best-effort
// and never returns an error; an empty result means no strategy produced
// anything, which the orchestrator treats as a fatal extraction failure.
//
// Strategies are tried in order and the first one that yields records wins:
//
//  1. a `"tasks": [...]` key anywhere in the text, rewrapped and parsed
//  2. brace-aware scan for JSON value candidates, first parse wins
//  3. the outermost `{ ... }` substring
//  4. an array of objects anchored on a `"title"` key
//  5. line-oriented `Task:` / `Title:` scan synthesizing minimal records
//
// Whatever a strategy parses is interpreted uniformly: a `tasks` array is
// used as-is, a bare array is used directly, and a single object carrying a
// title becomes a one-element list. Every record is normalized regardless of
// which strategy produced it.
func Records(text string) []domain.ExtractedRecord {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	strategies := []func(string) []domain.ExtractedRecord{
		recoverTasksKey,
		recoverValueScan,
		recoverOutermostObject,
		recoverTitleArray,
		recoverTaskLines,
	}

	for _, strategy := range strategies {
		if records := strategy(text); len(records) > 0 {
			return normalizeAll(records)
		}
	}
	return nil
}

// RecordArray is the array-restricted subset of the cascade applied to
// consolidation replies. Only strategies that produce a whole array are
// considered; a stray single object in the reply is ignored rather than
// mistaken for the consolidated list.
func RecordArray(text string) []domain.ExtractedRecord {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	// The reply is often exactly the requested array.
	var records []domain.ExtractedRecord
	if err := json.Unmarshal([]byte(trimmed), &records); err == nil && len(records) > 0 {
		return normalizeAll(records)
	}

	if records := recoverTasksKey(text); len(records) > 0 {
		return normalizeAll(records)
	}
	if records := recoverTitleArray(text); len(records) > 0 {
		return normalizeAll(records)
	}
	return nil
}

// recoverTasksKey locates a `"tasks": [ ... ]` substring, rewraps it as an
// envelope, and parses it.
func recoverTasksKey(text string) []domain.ExtractedRecord {
	loc := tasksKeyRegex.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	// loc[1]-1 is the opening bracket of the array.
	end, ok := scanBalanced(text, loc[1]-1)
	if !ok {
		return nil
	}

	wrapped := fmt.Sprintf(`{"tasks":%s}`, text[loc[1]-1:end+1])
	var env tasksEnvelope
	if err := json.Unmarshal([]byte(wrapped), &env); err != nil {
		return nil
	}
	return env.Tasks
}

// recoverValueScan walks the text looking for JSON value candidates (object
// or array shaped), parsing each in order of appearance and stopping at the
// first success.
func recoverValueScan(text string) []domain.ExtractedRecord {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		end, ok := scanBalanced(text, i)
		if !ok {
			continue
		}
		if records := interpretValue(text[i : end+1]); len(records) > 0 {
			return records
		}
		// Fall through at the next character so values nested inside a
		// malformed outer candidate still get a chance.
	}
	return nil
}

// recoverOutermostObject takes the widest `{ ... }` span and parses it.
func recoverOutermostObject(text string) []domain.ExtractedRecord {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}
	return interpretValue(text[start : end+1])
}

// recoverTitleArray searches for an array-of-objects pattern anchored on a
// `"title"` key, the last structured resort before line scanning.
func recoverTitleArray(text string) []domain.ExtractedRecord {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' {
			continue
		}
		end, ok := scanBalanced(text, i)
		if !ok {
			continue
		}
		candidate := text[i : end+1]
		if !strings.Contains(candidate, titleKeyNeedle) {
			i = end
			continue
		}

		var records []domain.ExtractedRecord
		if err := json.Unmarshal([]byte(candidate), &records); err == nil && len(records) > 0 {
			return records
		}
	}
	return nil
}

// recoverTaskLines is the emergency fallback: scan line-oriented text for
// `Task:` / `Title:` prefixes and synthesize minimal records from them.
func recoverTaskLines(text string) []domain.ExtractedRecord {
	var records []domain.ExtractedRecord
	for _, line := range strings.Split(text, "\n") {
		m := taskLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.Trim(m[1], `"' `)
		if title == "" {
			continue
		}
		records = append(records, domain.ExtractedRecord{
			Title:   title,
			Details: fmt.Sprintf("Recovered from unstructured model output: %s", title),
		})
	}
	return records
}

// interpretValue parses a JSON value candidate and interprets whatever comes
// out: a tasks envelope, a bare array, or a single titled object.
func interpretValue(candidate string) []domain.ExtractedRecord {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil
	}

	trimmed := strings.TrimSpace(string(raw))
	switch {
	case strings.HasPrefix(trimmed, "["):
		var records []domain.ExtractedRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil
		}
		return records
	case strings.HasPrefix(trimmed, "{"):
		var env tasksEnvelope
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Tasks) > 0 {
			return env.Tasks
		}
		var single domain.ExtractedRecord
		if err := json.Unmarshal(raw, &single); err == nil && single.Title != "" {
			return []domain.ExtractedRecord{single}
		}
	}
	return nil
}

// scanBalanced finds the index of the bracket closing the one at start,
// tracking brace/bracket depth and skipping string contents. Returns false
// if the value is truncated before it balances.
func scanBalanced(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// normalizeAll applies the record defaults to every element in place.
func normalizeAll(records []domain.ExtractedRecord) []domain.ExtractedRecord {
	for i := range records {
		records[i].Normalize()
	}
	return records
}
