package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	case "toon":
		return FormatTOON
	default:
		return FormatText
	}
}

// Renderable is a report view that renders itself as text or markdown and
// serializes its underlying report for json and toon.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	RenderData() any
}

// Formatter writes reports to stdout or a file in one format.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a new formatter. Writing to a file disables color.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	var writer io.Writer = os.Stdout
	var file *os.File

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		writer = f
		file = f
		colored = false
	}

	return &Formatter{
		format:  format,
		writer:  writer,
		file:    file,
		colored: colored,
	}, nil
}

// Close closes the formatter's writer if it's a file.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Format returns the configured format.
func (f *Formatter) Format() Format {
	return f.format
}

// Colored returns whether colored output is enabled.
func (f *Formatter) Colored() bool {
	return f.colored
}

// Output writes data in the configured format. Values that are not
// Renderable are written as JSON in text mode.
func (f *Formatter) Output(data any) error {
	r, ok := data.(Renderable)
	switch {
	case f.format == FormatJSON:
		if ok {
			data = r.RenderData()
		}
		return f.outputJSON(data)
	case f.format == FormatTOON:
		if ok {
			data = r.RenderData()
		}
		return f.outputTOON(data)
	case !ok:
		if f.format == FormatMarkdown {
			fmt.Fprintln(f.writer, "```json")
			defer fmt.Fprintln(f.writer, "```")
		}
		return f.outputJSON(data)
	case f.format == FormatMarkdown:
		return r.RenderMarkdown(f.writer)
	default:
		return r.RenderText(f.writer, f.colored)
	}
}

func (f *Formatter) outputJSON(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (f *Formatter) outputTOON(data any) error {
	out, err := MarshalTOON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.writer, out)
	return err
}

// MarshalTOON encodes data as TOON with the indentation used everywhere
// in kwgraph output.
func MarshalTOON(data any) (string, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Success prints a status line, green when colored.
func (f *Formatter) Success(format string, args ...any) {
	if f.colored {
		color.New(color.FgGreen).Fprintf(f.writer, format+"\n", args...)
		return
	}
	fmt.Fprintf(f.writer, format+"\n", args...)
}

// Warning prints a status line, yellow when colored.
func (f *Formatter) Warning(format string, args ...any) {
	if f.colored {
		color.New(color.FgYellow).Fprintf(f.writer, format+"\n", args...)
		return
	}
	fmt.Fprintf(f.writer, "WARNING: "+format+"\n", args...)
}

// SeverityColor colors text by diagnostic severity.
func SeverityColor(severity, text string) string {
	switch strings.ToLower(severity) {
	case "error":
		return color.RedString(text)
	case "warning":
		return color.YellowString(text)
	default:
		return text
	}
}
