package schema

import "testing"

func TestStringify(t *testing.T) {
	type record struct {
		Base
		Prompt   string  `json:"prompt"`
		Accuracy float64 `json:"accuracy"`
	}
	tests := []struct {
		name  string
		input Schema
		want  string
	}{
		{
			name:  "plain string passes through",
			input: NewString("Answer the following question."),
			want:  "Answer the following question.",
		},
		{
			name:  "empty string stays empty",
			input: NewString(""),
			want:  "",
		},
		{
			name:  "structured schema encodes to JSON",
			input: record{Prompt: "p", Accuracy: 0.5},
			want:  `{"prompt":"p","accuracy":0.5}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.input); got != tt.want {
				t.Errorf("Stringify() = %q, want %q", got, tt.want)
			}
			if got := string(ToBytes(tt.input)); got != tt.want {
				t.Errorf("ToBytes() = %q, want %q", got, tt.want)
			}
		})
	}
}
