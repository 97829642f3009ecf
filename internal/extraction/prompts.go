package extraction

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/complyloop/extract-api/internal/domain"
)

// extractionSystemPrompt frames every extraction conversation.
const extractionSystemPrompt = "You are a compliance assistant that reads uploaded documents and extracts " +
	"actionable task records. You always answer with a single JSON object and nothing else."

// extractionPromptTemplate is the first-turn prompt. It embeds the candidate
// context lists and the required output shape.
const extractionPromptTemplate = `Read the attached document and extract every actionable task-like item.

Respond with exactly one JSON object of this shape and nothing else:

{"tasks": [
  {
    "title": "short imperative summary (required)",
    "details": "longer description, may be empty",
    "assignee": "person responsible, or omit",
    "group": "team responsible, or omit",
    "category": "task category, or omit",
    "due_date": "ISO date (YYYY-MM-DD), or omit",
    "priority": "Low | Medium | High | Critical",
    "ticket_ref": "referenced ticket id, or omit",
    "external_ref": "external system reference, or omit"
  }
]}
{{if .Assignees}}
Choose "assignee" only from these candidates: {{join .Assignees ", "}}.{{end}}
{{- if .Groups}}
Choose "group" only from these candidates: {{join .Groups ", "}}.{{end}}
{{- if .Categories}}
Choose "category" only from these candidates: {{join .Categories ", "}}.{{end}}

Do not wrap the JSON in markdown fences or add commentary.`

// continuationPrompt asks the model to finish output the completeness
// heuristic judged truncated.
const continuationPrompt = "Your previous answer appears to be truncated. Continue exactly where it " +
	"stopped and complete the truncated JSON output. Do not repeat what you already sent."

// wrapUpPrompt is the one extra chance the lower-capability tier gets after
// continuation has already been tried.
const wrapUpPrompt = "Stop continuing. Send the complete final JSON object with all tasks you have " +
	"identified so far, valid and properly closed, in a single message."

// reasoningPrompt is the optional explain-your-reasoning turn on the
// advanced tier. Its prose reply is accumulated but never parsed, since the
// recovery cascade only scans for JSON.
const reasoningPrompt = "Briefly explain, in plain prose, how you decided which items in the document " +
	"were actionable tasks. Do not include any JSON in this answer."

// consolidationSystemPrompt frames the optimization pass.
const consolidationSystemPrompt = "You are a compliance assistant that optimizes lists of extracted task " +
	"records. You always answer with a single JSON array and nothing else."

// consolidationPromptTemplate carries the current record list into the
// optimization pass.
const consolidationPromptTemplate = `Below is a JSON array of task records extracted from a document.
Remove duplicates, merge items that clearly describe the same piece of work, and tolerate
transcription typos when matching. Keep the field layout of the input records.

Respond with only the optimized JSON array, nothing else.

%s`

var extractionTmpl = template.Must(
	template.New("extraction").Funcs(template.FuncMap{"join": strings.Join}).Parse(extractionPromptTemplate),
)

// buildExtractionPrompt renders the first-turn prompt with the candidate
// context from the submission.
func buildExtractionPrompt(opts domain.ExtractionOptions) (string, error) {
	var buf bytes.Buffer
	if err := extractionTmpl.Execute(&buf, opts); err != nil {
		return "", fmt.Errorf("failed to execute extraction prompt template: %w", err)
	}
	return buf.String(), nil
}

// buildConsolidationPrompt embeds the serialized record list in the
// optimization instructions.
func buildConsolidationPrompt(serialized []byte) string {
	return fmt.Sprintf(consolidationPromptTemplate, serialized)
}
