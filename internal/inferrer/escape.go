package inferrer

import "strings"

// specialChars are escaped by Escape.
const specialChars = "()[]{}?*+-|^$\\.&~# \t\n\r\v\f"

// Escape backslash-escapes regex metacharacters and whitespace so the
// result matches s literally.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
