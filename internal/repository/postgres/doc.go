// Package postgres provides PostgreSQL-backed implementations of the
// service repository interfaces, used when DATABASE_URL is configured.
package postgres
