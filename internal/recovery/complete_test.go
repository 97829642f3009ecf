package recovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsComplete(t *testing.T) {
	validObject := `{"tasks": [{"title": "Reset password for Alice", "details": "self-service portal is down"}]}`

	testCases := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "valid JSON object",
			text: validObject,
			want: true,
		},
		{
			name: "valid JSON object with surrounding whitespace",
			text: "\n  " + validObject + "\n",
			want: true,
		},
		{
			name: "valid JSON array",
			text: `[{"title": "a", "details": ""}]`,
			want: true,
		},
		{
			name: "same object with final brace removed",
			text: strings.TrimSuffix(validObject, "}"),
			want: false,
		},
		{
			name: "truncated mid-string",
			text: `{"tasks": [{"title": "Reset pass`,
			want: false,
		},
		{
			name: "trailing comma",
			text: `{"tasks": [{"title": "a"},`,
			want: false,
		},
		{
			name: "balanced braces but prose around JSON",
			text: "Here you go: {\"tasks\": []} hope that helps",
			want: false,
		},
		{
			name: "no JSON at all defaults to incomplete",
			text: "I could not find any actionable items in the document.",
			want: false,
		},
		{
			name: "empty text",
			text: "   \n",
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsComplete(tc.text))
		})
	}
}
