package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/panbanda/kwgraph/pkg/models"
)

var diagnosticHeaders = []string{"Line", "Severity", "Rule", "Message"}

// Diagnostics renders a lint report with one block per file.
type Diagnostics struct {
	Title  string
	Report *models.LintReport
}

// NewDiagnostics wraps report for rendering.
func NewDiagnostics(title string, report *models.LintReport) *Diagnostics {
	return &Diagnostics{Title: title, Report: report}
}

// RenderData returns the lint report itself.
func (d *Diagnostics) RenderData() any {
	return d.Report
}

// byFile splits the diagnostics, already sorted by file, into per-file runs.
func (d *Diagnostics) byFile() [][]models.Diagnostic {
	var groups [][]models.Diagnostic
	for i, diag := range d.Report.Diagnostics {
		if i == 0 || diag.File != d.Report.Diagnostics[i-1].File {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], diag)
	}
	return groups
}

func (d *Diagnostics) rows(group []models.Diagnostic, colored bool) [][]string {
	rows := make([][]string, 0, len(group))
	for _, diag := range group {
		severity := diag.Severity
		if colored {
			severity = SeverityColor(severity, severity)
		}
		rows = append(rows, []string{strconv.Itoa(diag.Line), severity, diag.Rule, diag.Message})
	}
	return rows
}

func (d *Diagnostics) summary() string {
	return fmt.Sprintf("Files: %d  Errors: %d  Warnings: %d  Total: %d",
		d.Report.Summary.FilesAnalyzed,
		d.Report.Count("error"),
		d.Report.Count("warning"),
		d.Report.Summary.Total)
}

func (d *Diagnostics) RenderText(w io.Writer, colored bool) error {
	heading(w, d.Title, "=", colored)
	fmt.Fprintln(w)

	for _, group := range d.byFile() {
		label := fmt.Sprintf("%s (%d)", group[0].File, len(group))
		if colored {
			color.New(color.FgCyan).Fprintln(w, label)
		} else {
			fmt.Fprintln(w, label)
		}

		table := newTable(w)
		table.Header(diagnosticHeaders)
		for _, row := range d.rows(group, colored) {
			if err := table.Append(row); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, d.summary())
	return nil
}

func (d *Diagnostics) RenderMarkdown(w io.Writer) error {
	if d.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", d.Title)
	}
	for _, group := range d.byFile() {
		fmt.Fprintf(w, "### %s\n\n", group[0].File)
		markdownTable(w, diagnosticHeaders, d.rows(group, false))
	}
	fmt.Fprintf(w, "%s\n", d.summary())
	return nil
}
