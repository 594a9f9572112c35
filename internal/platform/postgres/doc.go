// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, together with the
// embedded schema migrations. Connections go through database/sql using the
// pgx stdlib driver.
package postgres
