package textract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses horizontal whitespace",
			in:   "Scheme   Name:\t\tPM-KISAN",
			want: "Scheme Name: PM-KISAN",
		},
		{
			name: "collapses blank line runs",
			in:   "Eligibility: farmers\n\n\n\n\nBenefits: money",
			want: "Eligibility: farmers\n\nBenefits: money",
		},
		{
			name: "whitespace-only lines count as blank",
			in:   "a\n   \n \t \nb",
			want: "a\n\nb",
		},
		{
			name: "breaks before bullets",
			in:   "Benefits: • Rs 6000 per year • paid in three instalments",
			want: "Benefits:\n• Rs 6000 per year\n• paid in three instalments",
		},
		{
			name: "bullet already at line start untouched",
			in:   "Benefits:\n• Rs 6000",
			want: "Benefits:\n• Rs 6000",
		},
		{
			name: "consecutive bullets",
			in:   "x ••y",
			want: "x\n•\n•y",
		},
		{
			name: "symbol font bullet",
			in:   "Documents: \uf0b7 Aadhaar \uf0b7 land records",
			want: "Documents:\n\uf0b7 Aadhaar\n\uf0b7 land records",
		},
		{
			name: "CRLF and nbsp",
			in:   "line one\r\nline\u00a0two",
			want: "line one\nline two",
		},
		{
			name: "trims outer whitespace",
			in:   "  \n\n text \n\n ",
			want: "text",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"  leading and trailing  ",
		"a\n\n\n\nb",
		"a \n \n \n b",
		"• first • second •• third",
		" • starts with bullet",
		"tab\tseparated\tvalues\r\nnext line",
		"Benefits:   \u2022 one\u00a0\u00a0\u25aa two \n\n\n\u25e6 three \u25cf four",
		"\uf0b7\uf0a7 symbols \n\uf0b7",
		"mixed \v\f whitespace\n \n\t\n end",
		"Scheme Name: PM-KISAN Samman Nidhi\nEligibility: All landholding farmer families\n\nBenefits: Rs 6000",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}
