package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() []TableDef {
	return []TableDef{
		{
			Name: "users",
			Columns: []ColumnDef{
				{Name: "name", Type: String},
				{Name: "age", Type: Integer},
			},
		},
		{
			Name: "posts",
			Columns: []ColumnDef{
				{Name: "author", Type: Reference("users")},
			},
		},
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	s, err := Build(testDefs())
	require.NoError(t, err)

	assert.Equal(t, 2, s.TableCount())
	assert.Equal(t, []string{"users", "posts"}, s.TableNames())

	users, ok := s.Table("users")
	require.True(t, ok)
	assert.Equal(t, 2, users.ColumnCount())
	assert.Equal(t, []string{"name", "age"}, users.ColumnNames())

	age, ok := users.Column("age")
	require.True(t, ok)
	assert.Equal(t, Integer, age.Type())

	posts, ok := s.Table("posts")
	require.True(t, ok)
	author, ok := posts.Column("author")
	require.True(t, ok)
	assert.Equal(t, Reference("users"), author.Type())
}

func TestBuild_TableIndicesAreOneBased(t *testing.T) {
	s, err := Build(testDefs())
	require.NoError(t, err)

	first, ok := s.TableAt(1)
	require.True(t, ok)
	assert.Equal(t, "users", first.Name())

	second, ok := s.TableAt(2)
	require.True(t, ok)
	assert.Equal(t, "posts", second.Name())

	_, ok = s.TableAt(0)
	assert.False(t, ok)
	_, ok = s.TableAt(3)
	assert.False(t, ok)
}

func TestBuild_NilDefinitions(t *testing.T) {
	_, err := Build(nil)
	require.Error(t, err)
	assert.True(t, IsNotIterable(err))
}

func TestBuild_EmptyDefinitions(t *testing.T) {
	s, err := Build([]TableDef{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.TableCount())
}

func TestBuild_DuplicateTableNames(t *testing.T) {
	_, err := Build([]TableDef{
		{Name: "users"},
		{Name: "users"},
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateName(err))
	assert.Contains(t, err.Error(), "users")
}

func TestBuild_DuplicateColumnNames(t *testing.T) {
	_, err := Build([]TableDef{
		{Name: "users", Columns: []ColumnDef{
			{Name: "name", Type: String},
			{Name: "name", Type: Integer},
		}},
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateName(err))
	// The error names both the column and the table.
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "users")
}

func TestBuild_DuplicateColumnAcrossTablesIsFine(t *testing.T) {
	// Column names are only unique within their owning table.
	s, err := Build([]TableDef{
		{Name: "users", Columns: []ColumnDef{{Name: "id", Type: Integer}}},
		{Name: "posts", Columns: []ColumnDef{{Name: "id", Type: Integer}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.TableCount())
}

func TestBuild_SelfReference(t *testing.T) {
	_, err := Build([]TableDef{
		{Name: "a", Columns: []ColumnDef{
			{Name: "self_ref", Type: Reference("a")},
		}},
	})
	require.Error(t, err)
	assert.True(t, IsSelfReferencingForeignKey(err))
}

func TestBuild_ForwardReferenceIsRejected(t *testing.T) {
	// Only previously registered tables are visible as foreign-key targets.
	_, err := Build([]TableDef{
		{Name: "posts", Columns: []ColumnDef{
			{Name: "author", Type: Reference("users")},
		}},
		{Name: "users", Columns: []ColumnDef{
			{Name: "name", Type: String},
		}},
	})
	require.Error(t, err)
	assert.True(t, IsUnknownForeignKeyTarget(err))
}

func TestBuild_InvalidTableName(t *testing.T) {
	_, err := Build([]TableDef{{Name: "1users"}})
	require.Error(t, err)
	assert.True(t, IsMustStartWithLetter(err))
	assert.Contains(t, err.Error(), "1users")
}

func TestBuild_InvalidColumnType(t *testing.T) {
	_, err := Build([]TableDef{
		{Name: "users", Columns: []ColumnDef{
			{Name: "name", Type: nil},
		}},
	})
	require.Error(t, err)
	assert.True(t, IsUnsupportedColumnType(err))
}

func TestBuild_FailFast(t *testing.T) {
	// The second table is invalid; the third would be too, but only the
	// first violation is reported.
	_, err := Build([]TableDef{
		{Name: "users", Columns: []ColumnDef{{Name: "name", Type: String}}},
		{Name: "posts", Columns: []ColumnDef{{Name: "tags", Type: Reference("ghost")}}},
		{Name: "users"},
	})
	require.Error(t, err)
	assert.True(t, IsUnknownForeignKeyTarget(err))
	assert.False(t, IsDuplicateName(err))
}

func TestBuild_RetainsDefinitions(t *testing.T) {
	defs := testDefs()
	s, err := Build(defs)
	require.NoError(t, err)
	assert.Equal(t, defs, s.Definitions())
}

func TestSchema_AccessorsCopy(t *testing.T) {
	s, err := Build(testDefs())
	require.NoError(t, err)

	names := s.TableNames()
	names[0] = "mutated"
	assert.Equal(t, []string{"users", "posts"}, s.TableNames())

	users, _ := s.Table("users")
	cols := users.Columns()
	cols[0] = Column{}
	fresh, _ := users.Column("name")
	assert.Equal(t, "name", fresh.Name())
}

func BenchmarkBuild(b *testing.B) {
	defs := testDefs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Build(defs); err != nil {
			b.Fatal(err)
		}
	}
}
