// Package database provides SQLite database connectivity for escposd.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Schema migrations embedded into the binary
//   - Connection pooling and lifecycle management
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files follow the naming convention
// YYYYMMDD_HHMMSS_description.up.sql with a matching .down.sql for
// rollback. New columns must be NULLABLE or carry DEFAULT values so
// older binaries can still read the schema.
package database
