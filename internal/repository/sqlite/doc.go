// Package sqlite implements the service repositories on a single SQLite
// file opened in WAL mode with foreign keys enforced.
//
// Every method runs as its own short statement or transaction on the shared
// *sql.DB pool. Connections go back to the pool when the call returns, so no
// handle is held while ingestion waits on geolocation.
package sqlite
