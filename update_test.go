package sqlbuilder_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golobby/sqlbuilder"
	"github.com/golobby/sqlbuilder/op"
	"github.com/golobby/sqlbuilder/value"
)

func TestUpdateSQL(t *testing.T) {
	items, _ := mockTable(t, "items", "id", "a", "b")

	t.Run("columns are sorted", func(t *testing.T) {
		sql := items.Update(map[string]any{"b": "x", "a": 1}).Where(op.EQ("id", 3)).SQL()
		assert.Equal(t, `UPDATE "items" SET "a"=1, "b"='x' WHERE "id" = 3;`, sql)
	})

	t.Run("no where renders True", func(t *testing.T) {
		sql := items.Update(map[string]any{"a": nil}).SQL()
		assert.Equal(t, `UPDATE "items" SET "a"=NULL WHERE True;`, sql)
	})
}

func TestUpdatePerform(t *testing.T) {
	t.Run("affected rows", func(t *testing.T) {
		items, mock := mockTable(t, "items", "id", "a")
		mock.ExpectExec(`UPDATE "items" SET "a"=2 WHERE "id" = 1;`).WillReturnResult(sqlmock.NewResult(0, 1))
		assert.True(t, items.Update(map[string]any{"a": 2}).Where(op.EQ("id", 1)).Perform())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second perform is rejected", func(t *testing.T) {
		items, mock := mockTable(t, "items", "id", "a")
		mock.ExpectExec(`UPDATE "items" SET "a"=2 WHERE True;`).WillReturnResult(sqlmock.NewResult(0, 3))
		u := items.Update(map[string]any{"a": 2})
		assert.True(t, u.Perform())
		assert.False(t, u.Perform())
		assert.ErrorIs(t, items.LastError(), sqlbuilder.ErrStatementPerformed)
	})
}

func TestUpdateSQLite(t *testing.T) {
	db := sqliteDB(t)
	items := openTable(t, db, "items")
	seedItems(t, items, 3)

	t.Run("matching rows", func(t *testing.T) {
		assert.True(t, items.Update(map[string]any{"b": "two"}).Where(op.EQ("a", 2)).Perform())
		records := items.Select("b").Where(op.EQ("a", 2)).Perform()
		assert.Equal(t, sqlbuilder.Records{{"b": value.Text("two")}}, records)
	})

	t.Run("nothing matched is false without error", func(t *testing.T) {
		assert.False(t, items.Update(map[string]any{"b": "z"}).Where(op.EQ("a", 100)).Perform())
		assert.False(t, items.HasError())
	})

	t.Run("failure is false with error", func(t *testing.T) {
		assert.False(t, items.Update(map[string]any{"nope": 1}).Where(op.EQ("a", 1)).Perform())
		require.True(t, items.HasError())
		assert.Contains(t, items.LastError().Error(), "nope")
	})

	t.Run("error is cleared by the next statement", func(t *testing.T) {
		items.Select().Perform()
		assert.False(t, items.HasError())
	})

	t.Run("keyword inside a literal still counts rows", func(t *testing.T) {
		assert.True(t, items.Update(map[string]any{"b": "returning customer"}).Where(op.EQ("a", 1)).Perform())
		assert.False(t, items.HasError())
		records := items.Select("b").Where(op.EQ("a", 1)).Perform()
		assert.Equal(t, sqlbuilder.Records{{"b": value.Text("returning customer")}}, records)
	})

	t.Run("no where updates the whole table", func(t *testing.T) {
		assert.True(t, items.Update(map[string]any{"a": 0}).Perform())
		assert.Len(t, items.Select().Where(op.EQ("a", 0)).Perform(), 3)
	})
}
