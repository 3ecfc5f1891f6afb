package sqlbuilder_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/golobby/sqlbuilder"
)

const blogSchema = `
CREATE TABLE posts (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, body TEXT);
CREATE TABLE comments (id INTEGER PRIMARY KEY AUTOINCREMENT, post_id INTEGER, text TEXT);
CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, a INTEGER, b TEXT UNIQUE);
`

// sqliteDB creates a fresh file database, every connection of the pool sees
// the same data.
func sqliteDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(blogSchema)
	require.NoError(t, err)
	return db
}

func openTable(t *testing.T, db *sql.DB, name string, opts ...func(*sqlbuilder.Config)) *sqlbuilder.Table {
	t.Helper()
	conf := sqlbuilder.Config{DB: db, Dialect: sqlbuilder.Dialects.SQLite3}
	for _, opt := range opts {
		opt(&conf)
	}
	table, err := sqlbuilder.Open(conf, name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = table.Close() })
	return table
}

func pragmaRows(pk string, cols ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"})
	for i, c := range cols {
		isPK := 0
		if c == pk {
			isPK = 1
		}
		rows.AddRow(i, c, "TEXT", 0, nil, isPK)
	}
	return rows
}

// mockTable opens name over sqlmock with exact query matching. cols are
// reported by the schema lookup, the first one is the primary key.
func mockTable(t *testing.T, name string, cols ...string) (*sqlbuilder.Table, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	pk := ""
	if len(cols) > 0 {
		pk = cols[0]
	}
	mock.ExpectQuery(`PRAGMA table_info("` + name + `")`).WillReturnRows(pragmaRows(pk, cols...))
	table, err := sqlbuilder.Open(sqlbuilder.Config{DB: db, Dialect: sqlbuilder.Dialects.SQLite3}, name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = table.Close() })
	return table, mock
}
