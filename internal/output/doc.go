// Package output renders task results for the taskpool CLI.
//
// The package supports table, JSON and YAML output behind one Formatter
// interface, for both arbitrary values and batches of executor results.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable)
//	formatter.FormatResults(os.Stdout, results)
//
// # Options
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
//
// Wide mode adds the group and value columns to tables.
//
// # Color Support
//
// Colors are enabled only for TTY writers and can be disabled with
// WithNoColor(true). Task ids are cyan, READ is blue, WRITE is magenta,
// success green and failures red.
package output
