package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aryankumar/taskpool/internal/executor"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs results as a borderless table
	FormatTable Format = "table"
	// FormatJSON outputs results as JSON
	FormatJSON Format = "json"
	// FormatYAML outputs results as YAML
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or yaml)", s)
	}
}

// Formatter renders values and task results
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatResults outputs a batch of task results to the writer
	FormatResults(w io.Writer, results []executor.Result) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables additional columns
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// Record is the serialized form of one result
type Record struct {
	TaskID   string      `json:"taskId" yaml:"taskId"`
	Group    string      `json:"group" yaml:"group"`
	Kind     string      `json:"kind" yaml:"kind"`
	Status   string      `json:"status" yaml:"status"`
	Value    interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
	Duration string      `json:"duration" yaml:"duration"`
}

// Report is the serialized form of a batch with its summary
type Report struct {
	Results []Record      `json:"results" yaml:"results"`
	Summary ReportSummary `json:"summary" yaml:"summary"`
}

// ReportSummary mirrors executor.Summary with printable durations
type ReportSummary struct {
	Total       int     `json:"total" yaml:"total"`
	Successful  int     `json:"successful" yaml:"successful"`
	Failed      int     `json:"failed" yaml:"failed"`
	Reads       int     `json:"reads" yaml:"reads"`
	Writes      int     `json:"writes" yaml:"writes"`
	Groups      int     `json:"groups" yaml:"groups"`
	SuccessRate float64 `json:"successRate" yaml:"successRate"`
	AvgDuration string  `json:"avgDuration" yaml:"avgDuration"`
}

// NewRecord converts a result into its serialized form
func NewRecord(r executor.Result) Record {
	rec := Record{
		TaskID:   r.TaskID.String(),
		Group:    r.Group.String(),
		Kind:     r.Kind.String(),
		Status:   "success",
		Duration: r.Duration.String(),
	}

	if r.Error != nil {
		rec.Status = "failed"
		rec.Error = r.Error.Error()
	} else {
		rec.Value = r.Value
	}

	return rec
}

// NewReport converts results and their summary into serializable form
func NewReport(results []executor.Result) Report {
	records := make([]Record, len(results))
	for i, r := range results {
		records[i] = NewRecord(r)
	}

	s := executor.Summarize(results)
	return Report{
		Results: records,
		Summary: ReportSummary{
			Total:       s.Total,
			Successful:  s.Successful,
			Failed:      s.Failed,
			Reads:       s.Reads,
			Writes:      s.Writes,
			Groups:      s.Groups,
			SuccessRate: s.SuccessRate,
			AvgDuration: s.AvgDuration.String(),
		},
	}
}
