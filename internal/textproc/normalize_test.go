package textproc

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase passthrough", "the cat sat", "the cat sat"},
		{"uppercase", "The CAT Sat", "the cat sat"},
		{"digits removed", "answer 42 is wrong", "answer is wrong"},
		{"punctuation removed", "don't stop, ever!", "dont stop ever"},
		{"whitespace collapsed", "a  \t b\n\nc", "a b c"},
		{"leading and trailing trimmed", "  hello world  ", "hello world"},
		{"only junk", "123 !@# 456", ""},
		{"non-ascii letters dropped", "café naïve", "caf nave"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"The quick brown fox jumped over 2 lazy dogs!",
		"  Q1) mixed   CASE\nwith\tnewlines ",
		"123456",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
