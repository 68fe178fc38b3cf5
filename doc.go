// Package report renders a tree of sections, tables and text blocks as plain
// text for terminals and logs, as a self-contained HTML page, or as JSON.
//
// A report is built once and rendered in any of the three formats:
//
//	doc := report.NewDocument(report.WithWidth(100))
//	sec := doc.AddSection("Tables")
//	t := sec.AddTable()
//	_ = t.AddHeader("NAME", report.NewColumn("SIZE", report.ColFormat(report.HumanBytes)))
//	_ = t.AddRow([]any{"pg_class", 139264})
//	_ = doc.Flush(report.Text, os.Stdout)
//	doc.Close()
//	_ = doc.Flush(report.Text, os.Stdout)
//
// # Tables
//
// Columns are created by the first header row or data row. Header entries are
// titles or [Column] values, and an entry with [ColSpan] covers several
// columns; later header rows refine the columns under a spanning title. Every
// row must cover exactly the table's column count, otherwise
// [ErrColumnCountMismatch] is returned.
//
// Column widths are computed when the table is rendered. Each column is at
// least its requested minimum and at least as wide as its content (unless it
// has a fixed minimum that content overflows, in which case values are
// truncated with "..."). The table then grows to the narrowest of 25%, 50%,
// 75% or 100% of the target width that holds it, handing spare width first
// to truncated columns and then to all columns in proportion to their
// content.
//
// # Flushing
//
// [Node.Flush] writes a node at most once per format and writer, so a growing
// document can be flushed repeatedly to stream it. JSON is only written once
// the document is closed, because it is a single array. [Marshal] renders
// without that bookkeeping.
//
// # Colors
//
// Styles become ANSI escapes in text and inline styles in HTML. Text output
// is colored when [ColorAlways] is set, or with the default [ColorAuto] when
// the writer is a terminal and NO_COLOR is unset.
package report
