//go:build integration

// Package testdb provides utilities for database integration tests.
//
// Tests obtain a migrated connection with GetTestDBWithT and isolate their
// changes with WithTx, which always rolls back:
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			taskStore := postgres.NewPostgresTaskStore(tx, nil)
//			// ...
//		})
//	}
//
// The connection string comes from DATABASE_URL (or TASKPILOT_TEST_DB_URL);
// tests are skipped when neither is set.
package testdb
