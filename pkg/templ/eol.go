package templ

import "strings"

// TrimRightEol removes at most one trailing line terminator. "\r\n" and
// "\n\r" are checked before the single byte forms.
func TrimRightEol(s string) string {
	for _, eol := range []string{"\r\n", "\n\r", "\n", "\r"} {
		if strings.HasSuffix(s, eol) {
			return s[:len(s)-len(eol)]
		}
	}
	return s
}
