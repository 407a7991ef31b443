package keyword

import "strings"

// Kind classifies how a keyword treats its arguments.
type Kind int

const (
	// Plain keywords take ordinary arguments.
	Plain Kind = iota
	// Conditional wrappers take one argument (condition, expected error,
	// period...) before the wrapped call and may chain ELSE / ELSE IF
	// branches.
	Conditional
	// Forwarding wrappers run the keyword given as their first argument.
	Forwarding
	// Retry wrappers take a timeout and a retry interval before the call.
	Retry
	// List wrappers run several keywords separated by AND.
	List
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Conditional:
		return "conditional"
	case Forwarding:
		return "forwarding"
	case Retry:
		return "retry"
	case List:
		return "list"
	default:
		return "plain"
	}
}

// Skip returns how many argument cells precede the wrapped call.
func (k Kind) Skip() int {
	switch k {
	case Conditional:
		return 1
	case Retry:
		return 2
	default:
		return 0
	}
}

// ListSeparator separates keywords inside a keyword-list wrapper.
const ListSeparator = "AND"

var wrappers = map[string]Kind{
	"run keyword and return if":              Conditional,
	"run keyword and expect error":           Conditional,
	"run keyword if":                         Conditional,
	"run keyword unless":                     Conditional,
	"keyword should succeed within a period": Conditional,
	"repeat keyword":                         Conditional,

	"run keyword":                               Forwarding,
	"run keyword and continue on failure":       Forwarding,
	"run keyword and ignore error":              Forwarding,
	"run keyword and warn on failure":           Forwarding,
	"run keyword and return":                    Forwarding,
	"run keyword and return status":             Forwarding,
	"run keyword if all critical tests passed":  Forwarding,
	"run keyword if all tests passed":           Forwarding,
	"run keyword if any critical tests failed":  Forwarding,
	"run keyword if any tests failed":           Forwarding,
	"run keyword if test failed":                Forwarding,
	"run keyword if test passed":                Forwarding,
	"run keyword if timeout occurred":           Forwarding,

	"wait until keyword succeeds": Retry,

	"run keywords": List,
}

// KindOf returns the wrapper kind of the named keyword, case-insensitively.
func KindOf(name string) Kind {
	return wrappers[strings.ToLower(strings.TrimSpace(name))]
}
