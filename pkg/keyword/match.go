package keyword

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// ErrInvalidPattern is returned when a keyword name cannot be turned into
// a matching pattern.
var ErrInvalidPattern = errors.New("invalid keyword name pattern")

// ComparisonError carries both names of a comparison that could not be
// decided. It is never recovered from: a silent answer either way could
// hide or mass-suppress findings.
type ComparisonError struct {
	Def string
	Use string
	Err error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("compare keyword %q with %q: %v", e.Def, e.Use, e.Err)
}

func (e *ComparisonError) Unwrap() error {
	return e.Err
}

// placeholder matches an embedded variable in a normalized name.
var placeholder = regexp.MustCompile(`[@$&]\{[^}]+\}`)

// Normalize removes whitespace and underscores and lower-cases the name.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// HasPlaceholder reports whether a normalized name embeds a variable.
func HasPlaceholder(normalized string) bool {
	return placeholder.MatchString(normalized)
}

// Matcher compares keyword names, caching compiled patterns. It is safe
// for concurrent use.
type Matcher struct {
	patterns sync.Map // normalized name -> *regexp.Regexp
}

// NewMatcher creates a matcher with an empty pattern cache.
func NewMatcher() *Matcher {
	return &Matcher{}
}

var defaultMatcher = NewMatcher()

// Same reports whether a definition name and a usage name denote the same
// keyword, using a shared pattern cache. See Matcher.Same.
func Same(def, use string) (bool, error) {
	return defaultMatcher.Same(def, use)
}

// Same reports whether def and use denote the same keyword. Names are
// compared after normalization; an embedded variable on either side
// matches one or more characters on the other. The relation is symmetric
// but not transitive. An empty name never matches.
func (m *Matcher) Same(def, use string) (bool, error) {
	if def == "" || use == "" {
		return false, nil
	}
	nd, nu := Normalize(def), Normalize(use)
	if !HasPlaceholder(nd) && !HasPlaceholder(nu) {
		return nd == nu, nil
	}
	ok, err := m.matchNormalized(nd, nu)
	if err != nil {
		return false, &ComparisonError{Def: def, Use: use, Err: err}
	}
	return ok, nil
}

// matchNormalized tests both directions for names where at least one side
// carries a placeholder.
func (m *Matcher) matchNormalized(nd, nu string) (bool, error) {
	defPattern, err := m.pattern(nd)
	if err != nil {
		return false, err
	}
	if defPattern.MatchString(nu) {
		return true, nil
	}
	usePattern, err := m.pattern(nu)
	if err != nil {
		return false, err
	}
	return usePattern.MatchString(nd), nil
}

// pattern compiles a normalized name into an anchored regexp where every
// placeholder becomes `.+`.
func (m *Matcher) pattern(normalized string) (*regexp.Regexp, error) {
	if re, ok := m.patterns.Load(normalized); ok {
		return re.(*regexp.Regexp), nil
	}

	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, span := range placeholder.FindAllStringIndex(normalized, -1) {
		b.WriteString(regexp.QuoteMeta(normalized[last:span[0]]))
		b.WriteString(".+")
		last = span[1]
	}
	b.WriteString(regexp.QuoteMeta(normalized[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	actual, _ := m.patterns.LoadOrStore(normalized, re)
	return actual.(*regexp.Regexp), nil
}

// NameSet answers "does any of these usage names match a definition name"
// without comparing against every name for placeholder-free definitions.
type NameSet struct {
	matcher    *Matcher
	exact      map[string]struct{}
	normalized []string
	patterned  []string
}

// NewNameSet indexes usage names. A nil matcher uses the shared cache.
func NewNameSet(m *Matcher, names []string) *NameSet {
	if m == nil {
		m = defaultMatcher
	}
	s := &NameSet{matcher: m, exact: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" {
			continue
		}
		n := Normalize(name)
		if _, seen := s.exact[n]; seen {
			continue
		}
		s.exact[n] = struct{}{}
		s.normalized = append(s.normalized, n)
		if HasPlaceholder(n) {
			s.patterned = append(s.patterned, n)
		}
	}
	return s
}

// Len returns the number of distinct normalized names.
func (s *NameSet) Len() int {
	return len(s.normalized)
}

// Matches reports whether Same(def, u) holds for some name u in the set.
func (s *NameSet) Matches(def string) (bool, error) {
	if def == "" || s == nil {
		return false, nil
	}
	nd := Normalize(def)

	if HasPlaceholder(nd) {
		re, err := s.matcher.pattern(nd)
		if err != nil {
			return false, &ComparisonError{Def: def, Use: "*", Err: err}
		}
		for _, nu := range s.normalized {
			if re.MatchString(nu) {
				return true, nil
			}
		}
	} else if _, ok := s.exact[nd]; ok {
		return true, nil
	}

	for _, nu := range s.patterned {
		re, err := s.matcher.pattern(nu)
		if err != nil {
			return false, &ComparisonError{Def: def, Use: nu, Err: err}
		}
		if re.MatchString(nd) {
			return true, nil
		}
	}
	return false, nil
}
