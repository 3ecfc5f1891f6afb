package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")
	db := "--database=" + path

	out, err := run(t, "exec", "items", "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)", db)
	require.NoError(t, err)
	assert.Contains(t, out, "0 rows affected")

	out, err = run(t, "exec", "items", "INSERT INTO items (name) VALUES ('apple'), ('pear')", db)
	require.NoError(t, err)
	assert.Contains(t, out, "2 rows affected")

	out, err = run(t, "columns", "items", db)
	require.NoError(t, err)
	assert.Contains(t, out, "SQL Dialect: sqlite3")
	assert.Contains(t, out, "name")

	out, err = run(t, "select", "items", "name", "--where", `"name" = 'pear'`, db)
	require.NoError(t, err)
	assert.Contains(t, out, "pear")
	assert.NotContains(t, out, "apple")

	out, err = run(t, "select", "items", "--order-by", "id", "--desc", "--limit", "1", db)
	require.NoError(t, err)
	assert.Contains(t, out, "pear")
	assert.NotContains(t, out, "apple")

	out, err = run(t, "select", "items", "name", "id", db)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "NAME"), strings.Index(out, "ID"))

	_, err = run(t, "select", "items", "nope", db)
	assert.ErrorContains(t, err, "nope")

	_, err = run(t, "columns", "items", "--driver=oracle")
	assert.Error(t, err)
}

func TestOptionsFromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "sqlbuilder.yaml")
	require.NoError(t, os.WriteFile(config, []byte("driver: sqlite\ndatabase: "+filepath.Join(dir, "file.db")+"\ntimeout: 5s\n"), 0o600))
	t.Setenv("SQLBUILDER_USER", "alice")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config-file", config}))
	var opts options
	require.NoError(t, parseOptions(cmd, &opts))
	assert.Equal(t, "sqlite", opts.Driver)
	assert.Equal(t, filepath.Join(dir, "file.db"), opts.Database)
	assert.Equal(t, "alice", opts.User)
	assert.Equal(t, "5s", opts.Timeout.String())
}
