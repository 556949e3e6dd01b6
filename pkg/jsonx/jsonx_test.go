package jsonx_test

import (
	"testing"

	"todoflow/pkg/jsonx"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string // empty means nil expected
	}{
		{
			name: "clean object",
			raw:  `{"action":"CREATE"}`,
			want: `{"action":"CREATE"}`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"action\":\"CREATE\"}\n```",
			want: `{"action":"CREATE"}`,
		},
		{
			name: "bare fence",
			raw:  "```\n[1,2,3]\n```",
			want: `[1,2,3]`,
		},
		{
			name: "prose around object",
			raw:  `Sure! Here is the result: {"title":"call dentist","confidence":0.9} Hope that helps.`,
			want: `{"title":"call dentist","confidence":0.9}`,
		},
		{
			name: "nested braces",
			raw:  `prefix {"outer":{"inner":1}} suffix`,
			want: `{"outer":{"inner":1}}`,
		},
		{
			name: "braces inside strings",
			raw:  `{"note":"use {curly} braces"} trailing`,
			want: `{"note":"use {curly} braces"}`,
		},
		{
			name: "single quotes",
			raw:  `{'action': 'DELETE', 'confidence': 1}`,
			want: `{"action": "DELETE", "confidence": 1}`,
		},
		{
			name: "array payload with prose",
			raw:  `tasks below:\n[{"title":"a"},{"title":"b"}]`,
			want: `[{"title":"a"},{"title":"b"}]`,
		},
		{
			name: "no json at all",
			raw:  "I could not understand the request.",
		},
		{
			name: "unbalanced braces",
			raw:  `{"action":"CREATE"`,
		},
		{
			name: "empty input",
			raw:  "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jsonx.Extract(tt.raw)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Extract() = %q, want nil", got)
				}
				return
			}
			if string(got) != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Action     string  `json:"action"`
		Confidence float64 `json:"confidence"`
	}

	if !jsonx.Decode("```json\n{\"action\":\"UPDATE\",\"confidence\":0.8}\n```", &out) {
		t.Fatalf("Decode() = false, want true")
	}
	if out.Action != "UPDATE" || out.Confidence != 0.8 {
		t.Errorf("Decode() populated %+v", out)
	}

	if jsonx.Decode("no json here", &out) {
		t.Errorf("Decode() = true for garbage input")
	}
}
