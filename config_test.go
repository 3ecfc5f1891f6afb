package sqlbuilder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer func() { defaultConfig = nil }()

	_, err := New("items")
	assert.ErrorIs(t, err, ErrNoConfig)

	assert.ErrorIs(t, Setup(Config{Driver: "nope"}), ErrUnknownDialect)
	assert.Nil(t, defaultConfig)

	require.NoError(t, Setup(Config{Driver: "sqlite3", Database: filepath.Join(t.TempDir(), "setup.db")}))
	items, err := New("items", "id")
	require.NoError(t, err)
	defer items.Close()
	assert.Equal(t, "id", items.PrimaryKeyName())
	assert.Same(t, Dialects.SQLite3, items.Dialect())
}

func TestDataSourceNames(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		dsn := postgresDSN(Config{Host: "db", Port: 5432, Database: "blog", User: "u", Password: "p"})
		assert.Equal(t, "postgres://u:p@db:5432/blog?sslmode=disable", dsn)
	})
	t.Run("mysql", func(t *testing.T) {
		dsn := mysqlDSN(Config{Host: "db", Port: 3306, Database: "blog", User: "u", Password: "p"})
		assert.Contains(t, dsn, "u:p@tcp(db:3306)/blog?")
		assert.Contains(t, dsn, "sql_mode=%27ANSI_QUOTES%27")
	})
	t.Run("sqlite", func(t *testing.T) {
		assert.Equal(t, "x.db", sqliteDSN(Config{Database: "x.db"}))
	})
	t.Run("raw dsn wins", func(t *testing.T) {
		assert.Equal(t, "raw", postgresDSN(Config{DSN: "raw", Host: "db"}))
		assert.Equal(t, "raw", mysqlDSN(Config{DSN: "raw", Host: "db"}))
	})
}

func TestGetDialect(t *testing.T) {
	for driver, dialect := range map[string]*Dialect{
		"mysql":      Dialects.MySQL,
		"postgres":   Dialects.PostgreSQL,
		"postgresql": Dialects.PostgreSQL,
		"sqlite3":    Dialects.SQLite3,
		"sqlite":     Dialects.SQLite,
	} {
		got, err := getDialect(driver)
		require.NoError(t, err)
		assert.Same(t, dialect, got)
	}
	_, err := getDialect("oracle")
	assert.ErrorIs(t, err, ErrUnknownDialect)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"users"`, Dialects.PostgreSQL.QuoteIdentifier("users"))
	assert.Equal(t, `"we""ird"`, Dialects.SQLite3.QuoteIdentifier(`we"ird`))
	assert.Equal(t, `"we""ird"`, Dialects.MySQL.QuoteIdentifier(`we"ird`))
}
