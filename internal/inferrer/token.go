package inferrer

import (
	"strings"
	"unicode"
)

// TokenType classifies a run of characters.
type TokenType string

const (
	Digits       TokenType = "digits"
	LettersUpper TokenType = "letters_upper"
	LettersLower TokenType = "letters_lower"
	LettersMixed TokenType = "letters_mixed"
	Separator    TokenType = "separator"
	Special      TokenType = "special"
)

// separators are the characters classified as Separator.
const separators = `-_./\`

// Token is a maximal run of characters sharing one classification.
type Token struct {
	Type  TokenType `json:"type"`
	Value string    `json:"value"`
}

func classify(r rune) TokenType {
	switch {
	case unicode.IsDigit(r):
		return Digits
	case unicode.IsUpper(r):
		return LettersUpper
	case unicode.IsLower(r):
		return LettersLower
	case strings.ContainsRune(separators, r):
		return Separator
	default:
		return Special
	}
}

func isLetters(t TokenType) bool {
	return t == LettersUpper || t == LettersLower || t == LettersMixed
}

// Tokenize splits s into typed tokens. Concatenating the token values
// reproduces s exactly.
//
// A letter run that switches case becomes LettersMixed and stays mixed
// until a non-letter ends it, so "AbC123" yields [AbC:mixed 123:digits].
func Tokenize(s string) []Token {
	var (
		tokens []Token
		state  TokenType
		buf    strings.Builder
	)

	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, Token{Type: state, Value: buf.String()})
			buf.Reset()
		}
	}

	for _, r := range s {
		class := classify(r)

		switch {
		case buf.Len() > 0 && class == state:
			buf.WriteRune(r)
		case buf.Len() > 0 && isLetters(state) && (class == LettersUpper || class == LettersLower):
			buf.WriteRune(r)
			if state != LettersMixed {
				state = LettersMixed
			}
		default:
			flush()
			state = class
			buf.WriteRune(r)
		}
	}
	flush()

	return tokens
}
