// Package spreadsheet decodes uploaded workbooks into table datasets and writes
// reconciliation exports.
//
// Excel workbooks are read and written with excelize; CSV files are read as a
// single-sheet workbook named after the file.
//
// # Export Layout
//
// WriteExport always produces three sheets, even when a set is empty:
//   - Merged: the master-driven merged rows
//   - Unmatched_Client: client rows without a master counterpart
//   - Duplicate_Client: client rows sharing a raw key
//
// The reserved id field is never written.
package spreadsheet
