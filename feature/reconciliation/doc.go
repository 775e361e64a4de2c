// Package reconciliation exposes the reconciliation engine over HTTP.
//
// # Endpoints
//
//   - POST /reconcile: reconcile two JSON datasets.
//   - POST /reconcile/upload: reconcile two uploaded workbooks (xlsx or csv).
//     Both files are decoded concurrently; the export is stored in the bucket
//     and the run is recorded when a database is configured.
//   - POST /reconcile/export: render merged, unmatched and duplicate rows as xlsx.
//   - POST /reconcile/inspect: list sheets, columns and resolved key columns.
//   - POST /reconcile/rows/duplicate: copy one row under a fresh id.
//   - GET /reconcile/runs, GET /reconcile/runs/:id: run history.
//   - GET /reconcile/runs/:id/export: stream a stored export.
//   - DELETE /reconcile/runs/:id: remove a run and its export.
//
// # Errors
//
// A dataset without an HCPCS column yields 422. Undecodable files, unknown
// sheets and colliding row ids yield 400. Disabled history or storage yields 503.
package reconciliation
