package gemini

import "google.golang.org/genai"

// recordListSchema constrains structured-mode output to the tasks envelope
// the recovery cascade expects. Only the advanced tier requests it.
var recordListSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"tasks": {
			Type:  genai.TypeArray,
			Items: recordSchema,
		},
	},
	Required: []string{"tasks"},
}

var recordSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":        {Type: genai.TypeString},
		"details":      {Type: genai.TypeString},
		"assignee":     {Type: genai.TypeString},
		"group":        {Type: genai.TypeString},
		"category":     {Type: genai.TypeString},
		"due_date":     {Type: genai.TypeString},
		"priority":     {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High", "Critical"}},
		"ticket_ref":   {Type: genai.TypeString},
		"external_ref": {Type: genai.TypeString},
	},
	Required: []string{"title"},
}
