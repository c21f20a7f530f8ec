package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/aryankumar/taskpool/internal/executor"
	"github.com/aryankumar/taskpool/internal/util"
)

// maxValueWidth truncates the VALUE column in wide mode
const maxValueWidth = 50

// TableFormatter formats output as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatResults outputs task results as a table followed by a summary line
func (f *TableFormatter) FormatResults(w io.Writer, results []executor.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"TASK", "KIND", "STATUS", "DURATION"}
	if f.options.Wide {
		headers = append(headers, "GROUP", "VALUE")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			colored := make([]string, len(headers))
			for i, h := range headers {
				colored[i] = colors.Header("%s", h)
			}
			table.SetHeader(colored)
		}
	}

	for _, result := range results {
		table.Append(f.formatResultRow(result, colors))
	}

	table.Render()
	f.printSummary(w, results, colors)

	if executor.HasErrors(results) {
		f.printFailures(w, executor.FilterFailed(results), colors)
	}

	return nil
}

// formatResultRow formats a single result as a table row
func (f *TableFormatter) formatResultRow(result executor.Result, colors *ColorScheme) []string {
	id := result.TaskID.String()
	if !f.options.Wide {
		id = util.ShortID(id)
	}

	status := "Success"
	if result.Error != nil {
		status = "Failed"
	}

	row := []string{
		colors.TaskID("%s", id),
		colors.KindColor(result.Kind)("%s", result.Kind),
		colors.StatusColor(result.Error != nil)("%s", status),
		colors.Duration("%s", result.Duration.Round(time.Microsecond)),
	}

	if f.options.Wide {
		value := ""
		if result.Error != nil {
			value = result.Error.Error()
		} else if result.Value != nil {
			value = fmt.Sprintf("%v", result.Value)
		}
		if len(value) > maxValueWidth {
			value = value[:maxValueWidth-3] + "..."
		}
		row = append(row, result.Group.String(), value)
	}

	return row
}

// formatMap formats a map as a two-column table with sorted keys
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{strings.ToUpper(k), fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// createTable creates a new borderless, tab-padded table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the results
func (f *TableFormatter) printSummary(w io.Writer, results []executor.Result, colors *ColorScheme) {
	summary := executor.Summarize(results)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := colors.Success("%d successful", summary.Successful)

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if summary.Failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	kindText := fmt.Sprintf("%d read, %d write", summary.Reads, summary.Writes)
	rateText := fmt.Sprintf("%.1f%% success", summary.SuccessRate)
	durationText := colors.Duration("avg=%s", summary.AvgDuration.Round(time.Microsecond))

	fmt.Fprintf(w, "%s, %s (%s), %s, %s\n", successText, failedText, kindText, rateText, durationText)
}

// printFailures lists each failed task with its error
func (f *TableFormatter) printFailures(w io.Writer, failed []executor.Result, colors *ColorScheme) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, colors.Error("%s", "Failed tasks:"))

	for _, r := range failed {
		id := r.TaskID.String()
		if !f.options.Wide {
			id = util.ShortID(id)
		}
		fmt.Fprintf(w, "  %s [%s] %v\n", colors.TaskID("%s", id), r.Kind, r.Error)
	}
}
