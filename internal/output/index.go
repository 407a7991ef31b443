package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/panbanda/kwgraph/pkg/models"
)

var indexHeaders = []string{"File", "Kind", "Keywords", "Usages", "Digest"}

// digestWidth is how many hex digits of a file digest are shown.
const digestWidth = 12

// Index renders a project index as a file table.
type Index struct {
	Report *models.IndexReport
}

// NewIndex wraps report for rendering.
func NewIndex(report *models.IndexReport) *Index {
	return &Index{Report: report}
}

// RenderData returns the index report itself.
func (x *Index) RenderData() any {
	return x.Report
}

func (x *Index) rows() [][]string {
	rows := make([][]string, 0, len(x.Report.Files))
	for _, f := range x.Report.Files {
		rows = append(rows, []string{
			f.Path,
			f.Kind,
			strconv.Itoa(len(f.Definitions)),
			strconv.Itoa(f.Usages),
			f.Digest[:min(digestWidth, len(f.Digest))],
		})
	}
	return rows
}

func (x *Index) footer() []string {
	s := x.Report.Summary
	return []string{
		fmt.Sprintf("Files: %d", s.Files),
		fmt.Sprintf("Suites: %d, Resources: %d", s.TestSuites, s.Resources),
		strconv.Itoa(s.Definitions),
		strconv.Itoa(s.Usages),
		"",
	}
}

func (x *Index) RenderText(w io.Writer, colored bool) error {
	heading(w, "Project Index", "=", colored)
	fmt.Fprintf(w, "Root: %s\n\n", x.Report.Root)

	table := newTable(w)
	table.Header(indexHeaders)
	for _, row := range x.rows() {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	footer := x.footer()
	args := make([]any, len(footer))
	for i, f := range footer {
		args[i] = f
	}
	table.Footer(args...)
	if err := table.Render(); err != nil {
		return err
	}

	for _, f := range x.Report.Files {
		if len(f.UsedNames) > 0 {
			fmt.Fprintf(w, "\n%s invokes: %s", f.Path, strings.Join(f.UsedNames, ", "))
		}
	}
	fmt.Fprintln(w)
	return nil
}

func (x *Index) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Project Index\n\nRoot: `%s`\n\n", x.Report.Root)
	markdownTable(w, indexHeaders, append(x.rows(), x.footer()))
	return nil
}
