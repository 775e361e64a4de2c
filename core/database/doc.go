// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either MySQL or SQLite from the application's
// configuration. The database is optional: it only backs the reconciliation
// run history.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings and
// pings with the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read column metadata through the GORM
// migrator so the health check can verify the history table on any dialect.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Run history disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "reconciliation_runs", []string{"id", "created_at"})
package database
