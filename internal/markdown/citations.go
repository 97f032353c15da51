// Package markdown provides utilities for rewriting citation markers in
// model-generated markdown.
package markdown

import (
	"fmt"
	"regexp"
	"strconv"
)

// markerPattern matches a bracketed integer plus an optional following "(".
// RE2 has no lookahead, so the paren is captured instead: when present the
// marker is already a markdown link label and must not be rewritten.
var markerPattern = regexp.MustCompile(`\[(\d+)\](\(?)`)

// WithCitationLinks rewrites bare numeric reference markers like [1] into
// markdown links labeled with the literal marker, targeting the citation at
// the same 1-based position. Markers past the end of the citation list and
// markers already followed by a parenthesized URL are left untouched. An
// empty or nil citation list returns the input unchanged.
//
// Running the function on its own output is a no-op: a rewritten marker is
// followed by "(", and its escaped \[n\] label no longer matches the
// bare-marker form.
func WithCitationLinks(content string, citations []string) string {
	if len(citations) == 0 {
		return content
	}
	return markerPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := markerPattern.FindStringSubmatch(match)
		if sub[2] == "(" {
			return match
		}
		ordinal, err := strconv.Atoi(sub[1])
		if err != nil || ordinal < 1 || ordinal > len(citations) {
			return match
		}
		return fmt.Sprintf(`[\[%d\]](%s)`, ordinal, citations[ordinal-1])
	})
}
