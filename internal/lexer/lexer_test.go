package lexer

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Kind
	}{
		{"empty", "", Blank},
		{"whitespace only", "   \t  ", Blank},
		{"hash comment", "# a comment", Comment},
		{"slash comment", "// a comment", Comment},
		{"indented comment", "   # indented", Comment},
		{"madrs", "MADRS[0] = 12", Madrs},
		{"madrs lowercase", "madrs[3]=7", Madrs},
		{"madrs spaced", "MADRS [ 3 ] = 7", Madrs},
		{"statement", "INPUT mems:5", Statement},
		{"mac statement", "MAC input, #0x10", Statement},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.in)
			if got.Kind != tc.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tc.in, got.Kind, tc.want)
			}
		})
	}
}

func TestClassifyTrimsTrailingNewline(t *testing.T) {
	got := Classify("INPUT mems:5\r\n")
	if got.Kind != Statement || got.Text != "INPUT mems:5" {
		t.Errorf("Classify did not trim CRLF: %+v", got)
	}
}

func TestClassifyMadrsPreservesVerbatimText(t *testing.T) {
	got := Classify("  MADRS[2] = 99  ")
	if got.Kind != Madrs {
		t.Fatalf("expected Madrs, got %v", got.Kind)
	}
	if got.Text != "MADRS[2] = 99" {
		t.Errorf("Text = %q, want trimmed verbatim line", got.Text)
	}
}
