// Package health reports the state of the reconciler's dependencies.
//
// # Checks
//
//   - Storage: the export bucket exists and how many exports it holds.
//     GET /health/storage?fix=true creates the bucket and the export prefix.
//   - Database: the run history database answers a ping and its table has
//     every expected column. A server started without a database reports
//     "disabled", which is not a failure.
//
// GET /health combines both and is meant to stay public behind the API key.
package health
