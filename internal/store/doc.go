// Package store defines the persistence contracts of the fitness log.
// Services depend on these interfaces and on the transaction helper; the
// PostgreSQL implementations live in internal/platform/postgres.
//
// Every store exposes WithTx so a service can bind several stores to one
// *sql.Tx and commit their writes together through RunInTransaction.
package store
