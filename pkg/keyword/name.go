// Package keyword resolves which keyword names a statement invokes and
// decides when two keyword names denote the same keyword.
package keyword

import (
	"regexp"
	"strings"
)

// variableCell matches a cell that starts with a variable placeholder, such
// as an assignment target `${x} =` or `@{items}`.
var variableCell = regexp.MustCompile(`^[@$&]\{[^}]+\}`)

// nonInvocations are leading cells that make a statement carry no keyword
// call. Block markers are case-sensitive, as in the suite syntax itself.
var nonInvocations = map[string]struct{}{
	"[Documentation]": {},
	"[Arguments]":     {},
	"[Tags]":          {},
	"[Return]":        {},
	"[Timeout]":       {},
	":FOR":            {},
	"FOR":             {},
	"END":             {},
	"WHILE":           {},
	"TRY":             {},
	"EXCEPT":          {},
	"FINALLY":         {},
	"BREAK":           {},
	"CONTINUE":        {},
	"RETURN":          {},
	"VAR":             {},
}

// transparent cells do not shift which cell is the keyword.
var transparent = map[string]struct{}{
	"":           {},
	`\`:          {},
	"...":        {},
	"[setup]":    {},
	"[teardown]": {},
	"[template]": {},
}

var stepPrefixes = []string{"given ", "when ", "then ", "and "}

// IsVariable reports whether the cell starts with a variable placeholder.
func IsVariable(cell string) bool {
	return variableCell.MatchString(cell)
}

// isPureVariable reports whether the whole value is variable text, e.g.
// `${kw}` or `${a}${b}`. Such values are never reported as keyword names.
func isPureVariable(s string) bool {
	if len(s) < 3 || !strings.HasSuffix(s, "}") {
		return false
	}
	return (s[0] == '$' || s[0] == '@' || s[0] == '&') && s[1] == '{'
}

func isComment(cell string) bool {
	return strings.HasPrefix(cell, "#")
}

func isNonInvocation(cell string) bool {
	_, ok := nonInvocations[cell]
	return ok
}

func isTransparent(cell string) bool {
	_, ok := transparent[strings.ToLower(cell)]
	return ok
}

// ExtractName returns the keyword invoked by a single statement. Empty
// cells, continuation markers, setting markers that take a keyword and
// assignment targets are skipped; a behaviour-driven step word is stripped
// from the name. Comments and non-invoking settings yield no name.
func ExtractName(cells []string) (string, bool) {
	for _, cell := range cells {
		if isComment(cell) || isNonInvocation(cell) {
			return "", false
		}
		if isTransparent(cell) || IsVariable(cell) {
			continue
		}
		return stripStep(cell), true
	}
	return "", false
}

func stripStep(cell string) string {
	lower := strings.ToLower(cell)
	for _, prefix := range stepPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(cell[len(prefix):])
		}
	}
	return cell
}
