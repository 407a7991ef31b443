package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/kwgraph/pkg/models"
)

// Clusters renders name and implementation clusters, one block per cluster.
type Clusters struct {
	Report *models.ClusterReport
}

// NewClusters wraps report for rendering.
func NewClusters(report *models.ClusterReport) *Clusters {
	return &Clusters{Report: report}
}

// RenderData returns the cluster report itself.
func (c *Clusters) RenderData() any {
	return c.Report
}

// label names a cluster: its normalized name, or for an implementation
// cluster the first member's name and the body size.
func label(cl models.Cluster, impl bool) string {
	if !impl {
		return cl.Key
	}
	rows := len(bodyLines(cl.Key))
	return fmt.Sprintf("%s (%d rows)", cl.Members[0].Name, rows)
}

func bodyLines(key string) []string {
	key = strings.TrimRight(key, "\n")
	if key == "" {
		return nil
	}
	return strings.Split(key, "\n")
}

func memberLine(m models.ClusterMember) string {
	return fmt.Sprintf("%s:%d  %s", m.File, m.Line, m.Name)
}

func (c *Clusters) RenderText(w io.Writer, colored bool) error {
	heading(w, "Keyword Clusters", "=", colored)
	c.renderGroupText(w, "By name", c.Report.Name, false, colored)
	c.renderGroupText(w, "By implementation", c.Report.Implementation, true, colored)
	return nil
}

func (c *Clusters) renderGroupText(w io.Writer, title string, clusters []models.Cluster, impl, colored bool) {
	fmt.Fprintln(w)
	heading(w, fmt.Sprintf("%s (%d)", title, len(clusters)), "-", colored)
	for _, cl := range clusters {
		fmt.Fprintln(w)
		if colored {
			color.New(color.FgCyan).Fprintln(w, label(cl, impl))
		} else {
			fmt.Fprintln(w, label(cl, impl))
		}
		if impl {
			for _, line := range bodyLines(cl.Key) {
				fmt.Fprintf(w, "  | %s\n", line)
			}
		}
		for _, m := range cl.Members {
			fmt.Fprintf(w, "  %s\n", memberLine(m))
		}
	}
}

func (c *Clusters) RenderMarkdown(w io.Writer) error {
	fmt.Fprint(w, "## Keyword Clusters\n\n")
	c.renderGroupMarkdown(w, "By name", c.Report.Name, false)
	c.renderGroupMarkdown(w, "By implementation", c.Report.Implementation, true)
	return nil
}

func (c *Clusters) renderGroupMarkdown(w io.Writer, title string, clusters []models.Cluster, impl bool) {
	fmt.Fprintf(w, "### %s (%d)\n\n", title, len(clusters))
	for _, cl := range clusters {
		fmt.Fprintf(w, "#### %s\n\n", label(cl, impl))
		if impl {
			fmt.Fprintf(w, "```\n%s\n```\n\n", strings.Join(bodyLines(cl.Key), "\n"))
		}
		for _, m := range cl.Members {
			fmt.Fprintf(w, "- `%s`\n", memberLine(m))
		}
		fmt.Fprintln(w)
	}
}
