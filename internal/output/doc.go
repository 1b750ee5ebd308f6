// Package output formats compiler reports for display or machine consumption.
//
// Four formats are supported:
//   - text: human-readable terminal output (default)
//   - json: the full structured report
//   - markdown: PR-comment-friendly, one collapsible section per failing file
//   - sarif: SARIF v2.1.0 for upload to code-scanning services
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*closure.Report]. [WriteReport]
// handles choosing between a file and the given writer.
package output
