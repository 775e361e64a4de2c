// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header, with public
//     path prefixes such as /health.
//   - rayid: a unique request id (RayID) for every request, stored in the
//     Fiber locals and echoed in the X-Ray-ID response header.
//
// RayID must be registered first so every later log line carries it.
package middleware
