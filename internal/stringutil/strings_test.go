package stringutil

import "testing"

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Valid digits", "123456", true},
		{"Valid room number", "204", true},
		{"Empty string", "", false},
		{"Contains letter", "123a456", false},
		{"Contains space", "123 456", false},
		{"Only letters", "abc", false},
		{"Special chars", "123-456", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsNumeric(tt.input)
			if got != tt.want {
				t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Lowercases", "Any Free CLASSROOM?", "any free classroom?"},
		{"Collapses whitespace", "  library   status \t now ", "library status now"},
		{"Folds full-width", "ｌｉｂｒａｒｙ　ｓｅａｔｓ", "library seats"},
		{"Empty string", "", ""},
		{"Only whitespace", "   \t  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuery(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripPhrases(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		phrases []string
		want    string
	}{
		{"Strips single phrase", "where is sharma", []string{"where is"}, "sharma"},
		{"Strips multiple phrases", "tell me about prof verma", []string{"tell me about", "prof"}, "verma"},
		{"No phrase present", "sharma cabin", []string{"where is"}, "sharma cabin"},
		{"Collapses leftover spaces", "find   the   cabin", []string{"find"}, "the cabin"},
		{"Empty input", "", []string{"find"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripPhrases(tt.input, tt.phrases)
			if got != tt.want {
				t.Errorf("StripPhrases(%q, %v) = %q, want %q", tt.input, tt.phrases, got, tt.want)
			}
		})
	}
}
