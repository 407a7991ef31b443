package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// and how to read the results.

func describeLint() string {
	return `Runs every enabled keyword rule over the test project enclosing a path.

USE WHEN:
- Reviewing a test suite repository before a merge
- Getting one combined list of keyword hygiene problems
- Checking a single rule set by passing rule names

INTERPRETING RESULTS:
- Each diagnostic names a rule, a severity, a file relative to the project root and a line
- unused-keyword and move-keyword default to error; every other rule defaults to warning
- Paths inside messages are relative to the reporting file's directory
- Diagnostics are ordered by file, line, rule and message

METRICS RETURNED:
- Diagnostics: rule, severity, file, line, anchor (file, keyword or test case), message
- Summary: files analyzed, totals by severity, by rule and by file`
}

func describeUnused() string {
	return `Finds user keywords that nothing in the project invokes.

USE WHEN:
- Cleaning up shared resource files
- Checking whether a keyword can be deleted safely

INTERPRETING RESULTS:
- Keywords in a file with test cases only count as used by that same file
- Keywords in resource files count as used by any file in the project
- Names match after removing spaces and underscores and ignoring case
- An embedded variable such as ${user} matches any text at that position

METRICS RETURNED:
- One "Unused Keyword" diagnostic per unused definition`
}

func describeMove() string {
	return `Suggests where keywords that their own file never uses should live.

USE WHEN:
- Reorganising resource files
- Finding keywords defined far from their only caller

INTERPRETING RESULTS:
- "Move the keyword to file X": exactly one other file uses the keyword
- "Move the keyword to folder X\keywords.txt": several files use it and they share a folder below the keyword's own directory
- No suggestion is made when the shared folder lies above the keyword's directory

METRICS RETURNED:
- One move-keyword diagnostic per keyword with a suggestion`
}

func describeDuplicates() string {
	return `Finds keywords duplicated across files, by name, by implementation, or both.

USE WHEN:
- Consolidating copy-pasted keywords
- Finding name clashes between resource files

INTERPRETING RESULTS:
- "(name and impl)": same normalized name and identical body, a true duplicate
- "(name)": same name with a different body, a likely clash
- "(impl)": identical body under another name, shown in brackets
- Bodies are compared cell by cell, ignoring blank rows only
- Duplicates inside a single file are not reported

METRICS RETURNED:
- One diagnostic per keyword per duplicate in another file`
}

func describeClusters() string {
	return `Lists the groups of keywords that share a normalized name or an identical implementation.

USE WHEN:
- Seeing every copy of a keyword at once instead of pairwise diagnostics
- Planning a consolidation

INTERPRETING RESULTS:
- Name clusters are keyed by the normalized name
- Implementation clusters are keyed by the body text
- By default only clusters spanning more than one file are listed

METRICS RETURNED:
- name: clusters with key and members (name, file, line)
- implementation: clusters with key and members`
}

func describeIndex() string {
	return `Dumps the project index: every suite and resource file with its keyword definitions and usage counts.

USE WHEN:
- Understanding the layout of an unfamiliar test project
- Checking which files were picked up and how they were classified

INTERPRETING RESULTS:
- kind is test_suite when the file has a Test Cases table, otherwise resource
- digest is a BLAKE3 hash of the file contents
- Definition IDs are stable for an unchanged file set

METRICS RETURNED:
- Files: path, kind, digest, definitions, usage count, optionally the invoked names
- Summary: file, suite, resource, definition and usage totals`
}

func describeStyle() string {
	return `Runs the layout and robustness rules: trailing whitespace, repeated blank lines, assignment style, camel case names, Sleep calls and waits without a timeout.

USE WHEN:
- Enforcing a house style on suites
- Finding flaky patterns such as fixed sleeps

INTERPRETING RESULTS:
- Test cases of suites using Test Template are skipped by the statement rules
- "Missing timeout argument?" flags library waits called without timeout=

METRICS RETURNED:
- Diagnostics with rule, line and message, same shape as lint`
}
