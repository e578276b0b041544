// Package testdb opens the PostgreSQL database used by integration tests.
//
// Integration tests are compiled only with the "integration" build tag and
// are skipped unless FITLOG_TEST_DATABASE_URL (or DATABASE_URL) is set:
//
//	FITLOG_TEST_DATABASE_URL=postgres://... go test -tags=integration ./...
//
// The schema is migrated once per process through the embedded goose
// migrations, and each test runs inside a transaction that is always
// rolled back so tests can share one database.
package testdb
