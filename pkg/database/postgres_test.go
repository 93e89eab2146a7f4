package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sfk-console-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "sfk", Password: "p@ss word", Name: "console", SSLMode: "disable"})
	assert.Equal(t, "postgres://sfk:p%40ss%20word@db:5432/console?application_name=sfk-console-api&sslmode=disable", dsn)
}

func TestOpenDisabled(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
