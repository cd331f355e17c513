package inferrer

import (
	"slices"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []Token
	}{
		{"", nil},
		{`10"-FG-001`, []Token{
			{Digits, "10"}, {Special, `"`}, {Separator, "-"}, {LettersUpper, "FG"}, {Separator, "-"}, {Digits, "001"},
		}},
		{"AbC123", []Token{{LettersMixed, "AbC"}, {Digits, "123"}}},
		{"abcDEF", []Token{{LettersMixed, "abcDEF"}}},
		{"ABC def", []Token{{LettersUpper, "ABC"}, {Special, " "}, {LettersLower, "def"}}},
		{"a-/b", []Token{{LettersLower, "a"}, {Separator, "-/"}, {LettersLower, "b"}}},
		{`x\y_z.w`, []Token{
			{LettersLower, "x"}, {Separator, `\`}, {LettersLower, "y"}, {Separator, "_"}, {LettersLower, "z"}, {Separator, "."}, {LettersLower, "w"},
		}},
		{"#@!", []Token{{Special, "#@!"}}},
		{"Äpfel9", []Token{{LettersMixed, "Äpfel"}, {Digits, "9"}}},
		{"漢字1", []Token{{Special, "漢字"}, {Digits, "1"}}},
		{"aB1cD", []Token{{LettersMixed, "aB"}, {Digits, "1"}, {LettersMixed, "cD"}}},
		{"a²", []Token{{LettersLower, "a"}, {Special, "²"}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Tokenize(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize_RoundTrip(t *testing.T) {
	inputs := []string{
		"", " ", `10"-FG-001`, "AbC123", "Ünïcödé ✓ 42", "tab\tand\nnewline",
		`C:\path\to/file.pdf`, "mixedCASE-and_separators.../\\", "😀x😀",
	}
	for _, in := range inputs {
		var b strings.Builder
		for _, tok := range Tokenize(in) {
			if tok.Value == "" {
				t.Errorf("Tokenize(%q) produced an empty token", in)
			}
			b.WriteString(tok.Value)
		}
		if b.String() != in {
			t.Errorf("tokens of %q rejoin to %q", in, b.String())
		}
	}
}

func TestTokenize_AdjacentTokensDiffer(t *testing.T) {
	tokens := Tokenize("AA11--bb??Cc22")
	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1].Type, tokens[i].Type
		if isLetters(prev) && isLetters(cur) {
			t.Fatalf("letter runs %q and %q should have merged", tokens[i-1].Value, tokens[i].Value)
		}
		if prev == cur {
			t.Errorf("adjacent tokens %q and %q share type %s", tokens[i-1].Value, tokens[i].Value, cur)
		}
	}
}
