// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver. It owns the embedded schema migrations
// and translates driver errors into store sentinels with MapError.
package postgres
