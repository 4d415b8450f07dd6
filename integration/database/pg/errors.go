package pg

import "errors"

var (
	ErrEmptyConnectionString = errors.New("empty postgres connection string")
	ErrPostgresNotReady      = errors.New("postgres did not become ready within the given time period")
	ErrMigrationFailed       = errors.New("database migration failed")
	ErrHealthcheckFailed     = errors.New("postgres healthcheck failed")
)
