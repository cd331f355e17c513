// Package inferrer derives a regular expression from example strings by
// tokenizing each example and generalizing the tokens position by position.
package inferrer

import (
	"strings"
	"unicode"

	"github.com/jackzampolin/texthunter/internal/matcher"
)

// Strategy names how a pattern was derived.
type Strategy string

const (
	// StrategyStructural generalizes aligned tokens position by position.
	StrategyStructural Strategy = "structural"
	// StrategyAffix keeps the common prefix and suffix around a wildcard.
	StrategyAffix Strategy = "affix"
	// StrategyCharacterClass composes classes from characters seen anywhere.
	StrategyCharacterClass Strategy = "character_class"
)

// FallbackExplanation is the explanation for non-structural strategies.
const FallbackExplanation = "Generated pattern based on character classes"

const separatorClass = `[-_./\\]`

// Result is an inferred pattern and a description of its structure.
type Result struct {
	Pattern     string   `json:"pattern"`
	Explanation string   `json:"explanation"`
	Strategy    Strategy `json:"strategy"`
}

// Infer builds a pattern accepting every example.
// At least MinExamples examples are required.
func Infer(examples []string) (Result, error) {
	if len(examples) < MinExamples {
		return Result{}, &ValidationError{Msg: "at least 2 examples required"}
	}

	tokenized := make([][]Token, len(examples))
	for i, ex := range examples {
		tokenized[i] = Tokenize(ex)
	}

	for _, tokens := range tokenized[1:] {
		if len(tokens) != len(tokenized[0]) {
			return fallback(examples), nil
		}
	}

	parts := make([]string, 0, len(tokenized[0]))
	explanations := make([]string, 0, len(tokenized[0]))
	for i := range tokenized[0] {
		part, explanation := generalize(tokenized, i)
		parts = append(parts, part)
		explanations = append(explanations, explanation)
	}

	return Result{
		Pattern:     strings.Join(parts, ""),
		Explanation: "Pattern structure: " + strings.Join(explanations, " + "),
		Strategy:    StrategyStructural,
	}, nil
}

// generalize returns the pattern fragment and explanation for token
// position i across all examples.
func generalize(tokenized [][]Token, i int) (string, string) {
	first := tokenized[0][i]

	sameType, sameValue := true, true
	for _, tokens := range tokenized[1:] {
		if tokens[i].Type != first.Type {
			sameType = false
		}
		if tokens[i].Value != first.Value {
			sameValue = false
		}
	}
	if !sameType {
		return `.+?`, "any text"
	}

	switch first.Type {
	case Digits:
		return `\d+`, "digits"
	case LettersUpper:
		return `[A-Z]+`, "uppercase letters"
	case LettersLower:
		return `[a-z]+`, "lowercase letters"
	case LettersMixed:
		return `[A-Za-z]+`, "letters"
	case Separator:
		if sameValue {
			return Escape(first.Value), "'" + first.Value + "'"
		}
		return separatorClass, "separator"
	default:
		if sameValue {
			return Escape(first.Value), "'" + first.Value + "'"
		}
		return `.`, "any character"
	}
}

// fallback handles examples whose token counts differ.
func fallback(examples []string) Result {
	prefix := commonPrefix(examples)
	suffix := commonSuffix(examples)
	if prefix != "" || suffix != "" {
		return Result{
			Pattern:     Escape(prefix) + `.+` + Escape(suffix),
			Explanation: FallbackExplanation,
			Strategy:    StrategyAffix,
		}
	}

	var hasDigits, hasUpper, hasDash bool
	for _, ex := range examples {
		for _, r := range ex {
			switch {
			case unicode.IsDigit(r):
				hasDigits = true
			case unicode.IsUpper(r):
				hasUpper = true
			case r == '-':
				hasDash = true
			}
		}
	}

	var b strings.Builder
	if hasDigits {
		b.WriteString(`\d+`)
	}
	if hasDash {
		b.WriteString(`-`)
	}
	if hasUpper {
		b.WriteString(`[A-Z]+`)
	}
	if hasDash && hasDigits {
		b.WriteString(`-\d+`)
	}

	pattern := b.String()
	if pattern == "" {
		pattern = `.+`
	}
	return Result{Pattern: pattern, Explanation: FallbackExplanation, Strategy: StrategyCharacterClass}
}

func commonPrefix(strs []string) string {
	prefix := []rune(strs[0])
	for _, s := range strs[1:] {
		r := []rune(s)
		n := 0
		for n < len(prefix) && n < len(r) && prefix[n] == r[n] {
			n++
		}
		prefix = prefix[:n]
		if n == 0 {
			return ""
		}
	}
	return string(prefix)
}

func commonSuffix(strs []string) string {
	suffix := []rune(strs[0])
	for _, s := range strs[1:] {
		r := []rune(s)
		n := 0
		for n < len(suffix) && n < len(r) && suffix[len(suffix)-1-n] == r[len(r)-1-n] {
			n++
		}
		suffix = suffix[len(suffix)-n:]
		if n == 0 {
			return ""
		}
	}
	return string(suffix)
}

// Test reports, for each example, whether pattern finds a match in it.
func Test(pattern string, examples []string) (map[string]bool, error) {
	re, err := matcher.Compile(matcher.FieldKeyword, pattern)
	if err != nil {
		return nil, err
	}

	results := make(map[string]bool, len(examples))
	for _, ex := range examples {
		ok, err := re.MatchString(ex)
		if err != nil {
			return nil, err
		}
		results[ex] = ok
	}
	return results, nil
}
