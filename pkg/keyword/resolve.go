package keyword

import "strings"

// UsedKeywords returns every keyword name a statement invokes, unwrapping
// wrapper keywords recursively. Names appear in left-to-right discovery
// order and may repeat. The function is pure.
//
// Unrecognised shapes never fail: a wrapper with nothing to wrap resolves
// to the wrapper name alone.
func UsedKeywords(cells []string) []string {
	resolved := resolve(cells)
	out := make([]string, 0, len(resolved))
	for _, name := range resolved {
		if name == "" || isPureVariable(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func resolve(cells []string) []string {
	if len(cells) == 0 {
		return nil
	}
	first := cells[0]
	if isComment(first) || isNonInvocation(first) {
		return nil
	}

	switch lower := strings.ToLower(first); {
	case isTransparent(first) && first != "...":
		return resolve(cells[1:])
	case lower == "given" || lower == "when" || lower == "then" || lower == "and":
		return resolve(cells[1:])
	case IsVariable(first):
		return resolve(cells[1:])
	}

	if first == "..." && len(cells) > 1 {
		switch {
		case isElse(cells[1]), cells[1] == ListSeparator:
			return resolve(cells[2:])
		case isElseIf(cells[1]):
			return resolve(tail(cells, 3))
		}
	}
	switch {
	case isElse(first):
		return resolve(cells[1:])
	case isElseIf(first):
		return resolve(tail(cells, 2))
	case first == "...":
		return resolve(cells[1:])
	}

	// A native IF header or inline IF: the condition is not a call, the
	// body and any ELSE / ELSE IF branches are.
	if first == blockIf {
		var used []string
		for _, branch := range branches(cells, 2) {
			used = append(used, resolve(branch)...)
		}
		return used
	}

	name, ok := ExtractName(cells)
	if !ok {
		return nil
	}
	used := []string{name}

	switch kind := KindOf(name); kind {
	case Forwarding:
		used = append(used, resolve(cells[1:])...)
	case Retry:
		used = append(used, resolve(tail(cells, 1+kind.Skip()))...)
	case Conditional:
		for _, branch := range branches(cells, 1+kind.Skip()) {
			used = append(used, resolve(branch)...)
		}
	case List:
		used = append(used, resolveList(cells[1:])...)
	}
	return used
}

// branches splits a conditional statement into the wrapped call starting
// at start and one segment per ELSE / ELSE IF marker after it.
func branches(cells []string, start int) [][]string {
	if start >= len(cells) {
		return nil
	}
	var out [][]string
	from := start
	for i := start; i < len(cells); i++ {
		if isElse(cells[i]) || isElseIf(cells[i]) {
			out = append(out, cells[from:i])
			from = i
		}
	}
	return append(out, cells[from:])
}

// resolveList resolves the arguments of a keyword-list wrapper. With AND
// separators each segment is one call with its arguments; without them
// every cell is a keyword on its own.
func resolveList(args []string) []string {
	var used []string
	if !containsSeparator(args) {
		for _, cell := range args {
			used = append(used, resolve([]string{cell})...)
		}
		return used
	}
	from := 0
	for i, cell := range args {
		if cell == ListSeparator {
			used = append(used, resolve(args[from:i])...)
			from = i + 1
		}
	}
	return append(used, resolve(args[from:])...)
}

func containsSeparator(cells []string) bool {
	for _, c := range cells {
		if c == ListSeparator {
			return true
		}
	}
	return false
}

const blockIf = "IF"

func isElse(cell string) bool {
	return strings.EqualFold(cell, "ELSE")
}

func isElseIf(cell string) bool {
	return strings.EqualFold(cell, "ELSE IF")
}

func tail(cells []string, n int) []string {
	if n >= len(cells) {
		return nil
	}
	return cells[n:]
}
