package timeline

import "strings"

// Split breaks UTF-8 text on whitespace into display tokens. Empty input
// yields an empty sequence; no further normalization is applied.
func Split(text string) []string {
	return strings.Fields(text)
}
