package output

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panbanda/kwgraph/pkg/models"
)

func lintReport() *models.LintReport {
	return models.NewLintReport("/p", []string{"unused-keyword", "move-keyword"}, 3, []models.Diagnostic{
		{Rule: "unused-keyword", Severity: "error", File: "resources/Common.txt", Line: 2, Message: "Unused Keyword"},
		{Rule: "move-keyword", Severity: "error", File: "suites/Login.robot", Line: 14, Message: "Move the keyword to file `../resources/Keys.txt`"},
		{Rule: "no-sleep", Severity: "warning", File: "resources/Common.txt", Line: 9, Message: "DO NOT USE SLEEP!"},
	})
}

func TestDiagnosticsRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewDiagnostics("Keyword Diagnostics", lintReport()).RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Keyword Diagnostics\n===================",
		"resources/Common.txt (2)\n",
		"suites/Login.robot (1)\n",
		"Unused Keyword",
		"DO NOT USE SLEEP!",
		"Files: 3  Errors: 2  Warnings: 1  Total: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() output missing %q:\n%s", want, out)
		}
	}

	// Each file heading appears once, before the file's rows.
	if strings.Count(out, "resources/Common.txt") != 1 {
		t.Errorf("file should be a group heading, not a column:\n%s", out)
	}
	if strings.Index(out, "DO NOT USE SLEEP!") > strings.Index(out, "suites/Login.robot") {
		t.Errorf("rows should follow their file heading:\n%s", out)
	}
}

func TestDiagnosticsRenderMarkdown(t *testing.T) {
	report := lintReport()
	report.Diagnostics[0].Message = "a | b"

	var buf bytes.Buffer
	if err := NewDiagnostics("Diagnostics", report).RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "## Diagnostics\n\n### resources/Common.txt\n\n") {
		t.Errorf("markdown should start with the title and first file, got %q", out)
	}
	for _, want := range []string{
		"| Line | Severity | Rule | Message |\n| --- | --- | --- | --- |",
		`| 2 | error | unused-keyword | a \| b |`,
		"### suites/Login.robot",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestDiagnosticsRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	report := models.NewLintReport("/p", nil, 4, nil)
	if err := NewDiagnostics("", report).RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	if !strings.Contains(buf.String(), "Files: 4  Errors: 0  Warnings: 0  Total: 0") {
		t.Errorf("summary missing:\n%s", buf.String())
	}
}

func TestDiagnosticsOutputJSON(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.json")
	f, err := NewFormatter(FormatJSON, outputPath, false)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	if err := f.Output(NewDiagnostics("Diagnostics", lintReport())); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	f.Close()

	var got models.LintReport
	if err := json.Unmarshal([]byte(readFile(t, outputPath)), &got); err != nil {
		t.Fatalf("output is not a lint report: %v", err)
	}
	if len(got.Diagnostics) != 3 || got.Summary.ByRule["no-sleep"] != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestIndexRender(t *testing.T) {
	report := &models.IndexReport{
		Root: "/p",
		Files: []models.IndexedFile{
			{Path: "Common.txt", Kind: "resource", Digest: "0123456789abcdef", Definitions: []models.DefinitionEntry{{ID: 0, Name: "Login As", Line: 2}}, Usages: 1},
			{Path: "suites/Login.robot", Kind: "test_suite", Digest: "abc", Usages: 1, UsedNames: []string{"Login As"}},
		},
		Summary: models.IndexSummary{Files: 2, TestSuites: 1, Resources: 1, Definitions: 1, Usages: 2},
	}

	var text bytes.Buffer
	if err := NewIndex(report).RenderText(&text, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	for _, want := range []string{"Project Index", "Root: /p", "0123456789ab", "suites/Login.robot invokes: Login As"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text missing %q:\n%s", want, text.String())
		}
	}
	if strings.Contains(text.String(), "0123456789abc") {
		t.Errorf("digest should be shortened:\n%s", text.String())
	}

	var md bytes.Buffer
	if err := NewIndex(report).RenderMarkdown(&md); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	if !strings.Contains(md.String(), "| Common.txt | resource | 1 | 1 | 0123456789ab |") {
		t.Errorf("markdown row missing:\n%s", md.String())
	}

	if NewIndex(report).RenderData() != report {
		t.Error("RenderData() should return the report")
	}
}

func clusterReport() *models.ClusterReport {
	return &models.ClusterReport{
		Root: "/p",
		Name: []models.Cluster{{
			Key: "loginas",
			Members: []models.ClusterMember{
				{Name: "Login As", File: "Common.txt", Line: 2},
				{Name: "Login_As", File: "suites/Login.robot", Line: 6},
			},
		}},
		Implementation: []models.Cluster{{
			Key: "Go To    ${LOGIN}\nClick Button    Login\n",
			Members: []models.ClusterMember{
				{Name: "Login As", File: "Common.txt", Line: 2},
				{Name: "Sign In", File: "Other.txt", Line: 5},
			},
		}},
	}
}

func TestClustersRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewClusters(clusterReport()).RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Keyword Clusters\n================",
		"By name (1)\n-----------",
		"loginas\n  Common.txt:2  Login As\n  suites/Login.robot:6  Login_As\n",
		"By implementation (1)",
		"Login As (2 rows)\n  | Go To    ${LOGIN}\n  | Click Button    Login\n  Common.txt:2  Login As\n  Other.txt:5  Sign In\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() output missing %q:\n%s", want, out)
		}
	}
}

func TestClustersRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := NewClusters(clusterReport()).RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"## Keyword Clusters",
		"### By name (1)",
		"#### loginas\n\n- `Common.txt:2  Login As`",
		"#### Login As (2 rows)\n\n```\nGo To    ${LOGIN}\nClick Button    Login\n```",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestClustersRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewClusters(&models.ClusterReport{}).RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	if !strings.Contains(buf.String(), "By name (0)") || !strings.Contains(buf.String(), "By implementation (0)") {
		t.Errorf("empty groups should still be listed:\n%s", buf.String())
	}
}
