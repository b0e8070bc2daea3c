package database_test

import (
	"testing"

	"study/internal/database"
	"study/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, "file:migrate_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.Account{}))
	assert.True(t, db.Migrator().HasColumn(&models.Account{}, "bio"))
	assert.True(t, db.Migrator().HasIndex(&models.Account{}, "Nickname"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
