package matcher

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// Compile compiles a pattern written in Python's re syntax with the engine
// Extract uses. Errors are returned as *PatternError.
func Compile(field, pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(translate(pattern), regexp2.None)
	if err != nil {
		return nil, &PatternError{Field: field, Pattern: pattern, Err: err}
	}
	return re, nil
}

// translate rewrites the Python-only constructs regexp2 does not parse:
//
//	(?P<name>...)  capturing group, numbered left to right as Python does
//	(?P=name)      backreference
//	\Z             end of text
//	{,n}           same as {0,n}
//
// Named groups become plain groups because regexp2 numbers named groups
// after unnamed ones, which would shift group 1 and group 2.
func translate(pattern string) string {
	if !strings.Contains(pattern, "(?P") && !strings.Contains(pattern, `\Z`) && !strings.Contains(pattern, "{,") {
		return pattern
	}

	var (
		b       strings.Builder
		inClass bool
		groups  int
		names   = map[string]int{}
	)
	b.Grow(len(pattern))

	for i := 0; i < len(pattern); {
		c := pattern[i]
		rest := pattern[i:]

		switch {
		case c == '\\' && i+1 < len(pattern):
			if !inClass && pattern[i+1] == 'Z' {
				b.WriteString(`\z`)
			} else {
				b.WriteString(pattern[i : i+2])
			}
			i += 2
			continue

		case inClass:
			if c == ']' {
				inClass = false
			}

		case c == '[':
			inClass = true
			b.WriteByte(c)
			i++
			// A leading ']' (after an optional '^') is a literal.
			if i < len(pattern) && pattern[i] == '^' {
				b.WriteByte('^')
				i++
			}
			if i < len(pattern) && pattern[i] == ']' {
				b.WriteByte(']')
				i++
			}
			continue

		case strings.HasPrefix(rest, "(?P<"):
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				b.WriteString(rest)
				return b.String()
			}
			groups++
			names[rest[4:end]] = groups
			b.WriteByte('(')
			i += end + 1
			continue

		case strings.HasPrefix(rest, "(?P="):
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				b.WriteString(rest)
				return b.String()
			}
			n, ok := names[rest[4:end]]
			if !ok {
				// Leave it for the compiler to reject.
				b.WriteString(rest[:end+1])
			} else {
				b.WriteString(`(?:\` + strconv.Itoa(n) + `)`)
			}
			i += end + 1
			continue

		case c == '(' && !strings.HasPrefix(rest, "(?"):
			groups++

		case strings.HasPrefix(rest, "{,"):
			if end := strings.IndexByte(rest, '}'); end > 2 && isDigits(rest[2:end]) {
				b.WriteString("{0,")
				i += 2
				continue
			}
		}

		b.WriteByte(c)
		i++
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
