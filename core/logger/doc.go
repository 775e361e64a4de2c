// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for the CLI commands and the HTTP
// server. The reconciliation engine itself never logs; callers log around it.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber
// context and attaches it to the log entry, so all logs of one upload can be
// correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Reconciliation finished", zap.Int("matched", stats.MatchedRecords))
package logger
