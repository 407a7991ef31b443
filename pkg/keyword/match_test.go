package keyword

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "getposition", Normalize("Get Position"))
	assert.Equal(t, "getposition", Normalize("get_position"))
	assert.Equal(t, "getposition", Normalize(" GET\tPOSITION "))
	assert.Equal(t, "use${var}", Normalize("Use ${ var }"))
}

func TestSame(t *testing.T) {
	tests := []struct {
		def, use string
		want     bool
	}{
		{"Get Position", "Get Position 1", false},
		{"Get Position", "Get Position", true},
		{"Get Position", "get_position", true},
		{"Use Variable ${var1}", "Use Variable 123", true},
		{"Use Variable 123", "Use Variable ${var1}", true},
		{"Use Variable ${var1}", "Use Variable ${var2}", true},
		{"Use Variable ${var1} hi", "Use Variable 132", false},
		{"The Column ${customField} Was Set To Be Visible", "The Column ${customField.fieldName} Was Set To Be Visible", true},
		{"The Column ${customField.fieldName} Was Set To Be Visible", "The Column ${customField} Was Set To Be Visible", true},
		{"Action", `"*+,-./:;<="()`, false},
		{"Action", "(", false},
		{".", ".", true},
		{"Action", "", false},
		{"", "Action", false},
		{"", "", false},
		{"Open ${page} Page", "Open  Page", false},
		{"Select [${item}]", "Select [apple]", true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s~%s", tt.def, tt.use), func(t *testing.T) {
			got, err := Same(tt.def, tt.use)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSame_Symmetric(t *testing.T) {
	names := []string{
		"Get Position", "get_position", "Use Variable ${var}", "Use Variable 123",
		"Use Variable ${a} hi", "Use ${x}", "Open ${page} Page", "Open Login Page",
		".", "(", "", "Select [${item}]", "Select [x]",
	}
	for _, a := range names {
		for _, b := range names {
			ab, err := Same(a, b)
			require.NoError(t, err)
			ba, err := Same(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "Same(%q, %q) should equal Same(%q, %q)", a, b, b, a)
		}
	}
}

func TestSame_NotTransitive(t *testing.T) {
	a, b, c := "Open Login Page", "Open ${page} Page", "Open Home Page"

	ab, _ := Same(a, b)
	bc, _ := Same(b, c)
	ac, _ := Same(a, c)

	assert.True(t, ab)
	assert.True(t, bc)
	assert.False(t, ac)
}

func TestComparisonError(t *testing.T) {
	err := &ComparisonError{Def: "A ${x}", Use: "A b", Err: ErrInvalidPattern}
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Contains(t, err.Error(), `"A ${x}"`)
	assert.Contains(t, err.Error(), `"A b"`)
}

func TestNameSet_MatchesAgreesWithSame(t *testing.T) {
	uses := []string{"Get Position", "Use Variable 123", "Open ${page} Page", "", "Click"}
	defs := []string{
		"Get Position", "get position", "Use Variable ${v}", "Open Login Page",
		"Open Page", "Click", "Clicks", "Missing", "${anything}",
	}

	set := NewNameSet(nil, uses)
	assert.Equal(t, 4, set.Len())

	for _, def := range defs {
		want := false
		for _, use := range uses {
			ok, err := Same(def, use)
			require.NoError(t, err)
			want = want || ok
		}
		got, err := set.Matches(def)
		require.NoError(t, err)
		assert.Equal(t, want, got, "Matches(%q)", def)
	}
}

func TestNameSet_Empty(t *testing.T) {
	var nilSet *NameSet
	ok, err := nilSet.Matches("x")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewNameSet(NewMatcher(), nil).Matches("x")
	require.NoError(t, err)
	assert.False(t, ok)
}
