package disambiguate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexical(t *testing.T) {
	posts := []string{"id", "name"}
	comments := Join{Table: "comments", Columns: []string{"id", "text"}}

	t.Run("shared column goes to the base table", func(t *testing.T) {
		fields, where := Lexical{}.Resolve("posts", posts, []Join{comments}, []string{"id", "text"}, `"id" = 1`)
		assert.Equal(t, []string{"posts.id", "text"}, fields)
		assert.Equal(t, `posts."id" = 1`, where)
	})

	t.Run("shared column goes to the joined table when asked", func(t *testing.T) {
		toOther := comments
		toOther.ToOther = true
		fields, where := Lexical{}.Resolve("posts", posts, []Join{toOther}, []string{"id", "text"}, `"id" = 1`)
		assert.Equal(t, []string{"comments.id", "text"}, fields)
		assert.Equal(t, `comments."id" = 1`, where)
	})

	t.Run("first join wins", func(t *testing.T) {
		joins := []Join{
			{Table: "comments", Columns: []string{"id", "text"}, ToOther: true},
			{Table: "tags", Columns: []string{"id", "name"}, ToOther: true},
		}
		fields, where := Lexical{}.Resolve("posts", posts, joins, []string{"id", "name"}, `("id" > 1) AND ("name" = 'x')`)
		assert.Equal(t, []string{"comments.id", "tags.name"}, fields)
		assert.Equal(t, `(comments."id" > 1) AND (tags."name" = 'x')`, where)
	})

	t.Run("later join does not override an earlier base resolution", func(t *testing.T) {
		joins := []Join{
			{Table: "comments", Columns: []string{"id"}},
			{Table: "tags", Columns: []string{"id"}, ToOther: true},
		}
		fields, _ := Lexical{}.Resolve("posts", posts, joins, []string{"id"}, "")
		assert.Equal(t, []string{"posts.id"}, fields)
	})

	t.Run("expressions and unique columns are left alone", func(t *testing.T) {
		fields, where := Lexical{}.Resolve("posts", posts, []Join{comments}, []string{"COUNT(*) AS lol", "text"}, `"parent_id" = 3`)
		assert.Equal(t, []string{"COUNT(*) AS lol", "text"}, fields)
		assert.Equal(t, `"parent_id" = 3`, where)
	})

	t.Run("qualified identifiers are left alone", func(t *testing.T) {
		_, where := Lexical{}.Resolve("posts", posts, []Join{comments}, nil, `(comments."id" = 1) AND ("id" > 2)`)
		assert.Equal(t, `(comments."id" = 1) AND (posts."id" > 2)`, where)

		_, where = Lexical{}.Resolve("posts", posts, []Join{comments}, nil, `"id" = "id"`)
		assert.Equal(t, `posts."id" = posts."id"`, where)
	})

	t.Run("no joins no changes", func(t *testing.T) {
		fields, where := Lexical{}.Resolve("posts", posts, nil, []string{"id"}, `"id" = 1`)
		assert.Equal(t, []string{"id"}, fields)
		assert.Equal(t, `"id" = 1`, where)
	})
}
