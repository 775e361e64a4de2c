// Package table defines the row/column model shared by the decoder, the
// reconciliation engine and the export writer.
//
// Rows are schema-less: besides the reserved id, every field is driven by a
// spreadsheet header and holds a string, a float64 or nil. Business field names
// are never hard-coded here; lookups go through the column resolver in
// core/reconcile.
package table
