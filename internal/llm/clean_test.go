package llm

import "testing"

func TestCleanAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "vacio", in: "   ", want: ""},
		{name: "trim", in: "\n hola \t", want: "hola"},
		{name: "bom", in: "\uFEFFhola", want: "hola"},
		{name: "think", in: "<think>\nrazonando...\n</think>\n\nrespuesta", want: "respuesta"},
		{name: "solo think", in: "<THINK>x</THINK>", want: ""},
		{name: "think en medio se conserva", in: "a <think>b</think> c", want: "a <think>b</think> c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanAnswer(tt.in); got != tt.want {
				t.Fatalf("cleanAnswer(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
