package style

import (
	"fmt"
	"testing"

	"github.com/panbanda/kwgraph/internal/testutil"
	"github.com/panbanda/kwgraph/pkg/analyzer"
	"github.com/panbanda/kwgraph/pkg/index"
	"github.com/panbanda/kwgraph/pkg/robot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, r analyzer.Rule, text string) []string {
	t.Helper()
	rec := index.NewRecord(robot.Parse("Suite.robot", text))
	var out []string
	err := r.Apply(rec, analyzer.ReporterFunc(func(anchor analyzer.Anchor, message string, line int) {
		out = append(out, fmt.Sprintf("%d %s %s", line, anchor.Name, message))
	}))
	require.NoError(t, err)
	return out
}

func TestTrailingWhitespace(t *testing.T) {
	text := "*** Keywords ***\nStep \n    Log    x\t\n    Log    y\n"
	assert.Equal(t, []string{
		"2 Suite.robot Trailing whiteSpace.",
		"3 Suite.robot Trailing whiteSpace.",
	}, run(t, TrailingWhitespace{}, text))
}

func TestMoreThanOneBlankLine(t *testing.T) {
	text := testutil.Suite(
		"*** Keywords ***",
		"Step",
		"    Log    x",
		"",
		"    ",
		"",
		"Other",
		"    Log    y",
		"",
	)
	assert.Equal(t, []string{
		"5 Suite.robot More than one blank line.",
		"6 Suite.robot More than one blank line.",
	}, run(t, MoreThanOneBlankLine{}, text))
}

func TestAssignmentStyle(t *testing.T) {
	text := testutil.Suite(
		"*** Test Cases ***",
		"Case",
		"    ${a}    Get A",
		"    ${b}=    Get B",
		"    ${c} =    Get C",
		"    ${d} =    ${e}    Get Pair",
		"",
		"*** Keywords ***",
		"Step",
		"    [Arguments]    ${x}",
		"    @{items}    Get Items",
	)
	assert.Equal(t, []string{
		"3 Case Add an assignment operator `=` after the variable",
		"4 Case Add a space between the variable and `=`",
		"6 Case Add an assignment operator `=` after the variable",
		"11 Step Add an assignment operator `=` after the variable",
	}, run(t, AssignmentStyle{}, text))
}

func TestAssignmentStyle_TemplateSkipsTests(t *testing.T) {
	text := testutil.Suite(
		"*** Settings ***",
		"Test Template    Check",
		"",
		"*** Test Cases ***",
		"Case",
		"    ${a}    Get A",
		"",
		"*** Keywords ***",
		"Check",
		"    ${b}    Get B",
	)
	assert.Equal(t, []string{
		"10 Check Add an assignment operator `=` after the variable",
	}, run(t, AssignmentStyle{}, text))
}

func TestCamelCaseKeyword(t *testing.T) {
	text := testutil.Suite(
		"*** Test Cases ***",
		"Case",
		"    Given user logs in",
		"    # lower case comment",
		"    ${x} =    Get Value",
		"",
		"*** Keywords ***",
		"open page",
		"    Go To    ${URL}",
		"    click button    ok",
		"",
		"打開頁面",
		"    No Operation",
	)
	assert.Equal(t, []string{
		"3 Case Keyword name is not Camel Case.",
		"8 open page Keyword name is not Camel Case.",
		"10 open page Keyword name is not Camel Case.",
	}, run(t, CamelCaseKeyword{}, text))
}

func TestNoSleep(t *testing.T) {
	text := testutil.Suite(
		"*** Keywords ***",
		"Step",
		"    Sleep    1s",
		"    Run Keyword If    ${ready}    sleep    2s",
		"    Log    Sleep",
	)
	assert.Equal(t, []string{
		"3 Step DO NOT USE SLEEP!",
		"4 Step DO NOT USE SLEEP!",
	}, run(t, NoSleep{}, text))
}

func TestMissingWaitTimeout(t *testing.T) {
	text := testutil.Suite(
		"*** Keywords ***",
		"Step",
		"    Wait Until Page Contains    Welcome",
		"    Wait Until Page Contains    Welcome    timeout=5s",
		"    Wait Until Keyword Succeeds    3x    1s    Click",
		"    Log    done",
	)
	assert.Equal(t, []string{
		"3 Step Missing timeout argument?",
	}, run(t, MissingWaitTimeout{}, text))
}

func TestAll(t *testing.T) {
	names := make(map[string]bool)
	for _, r := range All() {
		names[r.Name()] = true
	}
	assert.Len(t, names, 6)
}

func TestRulesIgnoreMissingSource(t *testing.T) {
	rec := &index.FileRecord{Path: "x.robot"}
	for _, r := range All() {
		assert.NoError(t, r.Apply(rec, analyzer.ReporterFunc(func(analyzer.Anchor, string, int) {
			t.Fatalf("%s reported on a record without source", r.Name())
		})))
	}
}
