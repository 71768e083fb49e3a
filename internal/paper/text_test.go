package paper

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "collapses internal whitespace",
			input:    "Deep   learning\nfor\tproteins",
			expected: "Deep learning for proteins",
		},
		{
			name:     "trims leading and trailing",
			input:    "  a title  ",
			expected: "a title",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    " \n\t ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "abs URL",
			input:    "https://arxiv.org/abs/2301.12345",
			expected: "2301.12345",
		},
		{
			name:     "arxiv prefix",
			input:    "arxiv:2301.12345",
			expected: "2301.12345",
		},
		{
			name:     "bare ID",
			input:    "2301.12345",
			expected: "2301.12345",
		},
		{
			name:     "bare ID with version",
			input:    "2301.12345v2",
			expected: "2301.12345",
		},
		{
			name:     "four digit suffix",
			input:    "0704.0001",
			expected: "0704.0001",
		},
		{
			name:     "old style URL",
			input:    "https://arxiv.org/abs/hep-th/9901001",
			expected: "hep-th/9901001",
		},
		{
			name:     "not an arxiv reference",
			input:    "https://example.com/paper.pdf",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractArxivID(tt.input); got != tt.expected {
				t.Errorf("ExtractArxivID(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidRating(t *testing.T) {
	valid := []int{0, 1, 3, 5}
	invalid := []int{-1, 6, 100}

	for _, r := range valid {
		if !ValidRating(r) {
			t.Errorf("ValidRating(%d) = false, want true", r)
		}
	}
	for _, r := range invalid {
		if ValidRating(r) {
			t.Errorf("ValidRating(%d) = true, want false", r)
		}
	}
}
