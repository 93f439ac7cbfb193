package catalog

import (
	"testing"

	"github.com/rrdb/rrdb/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCatalogCreateAndLookup(t *testing.T) {
	c := NewMemoryCatalog()
	require.NoError(t, c.CreateDatabase("app"))

	require.NoError(t, c.CreateTable("app", &TableConfig{
		Name:    ast.TableName{Table: "users"},
		Columns: []ast.Column{{Name: "id", DataType: ast.DataType{Name: "INT"}}},
	}))

	tbl, ok := c.GetTableConfig("app", "users")
	require.True(t, ok)
	assert.NotNil(t, tbl.Heap)
	col, ok := tbl.Column("id")
	require.True(t, ok)
	assert.Equal(t, "INT", col.DataType.Name)

	dbs := c.ListDatabases()
	assert.Equal(t, []string{"app"}, dbs)

	tables, ok := c.ListTables("app")
	require.True(t, ok)
	assert.Equal(t, []string{"users"}, tables)
}

func TestMemoryCatalogCreateDatabaseTwiceErrors(t *testing.T) {
	c := NewMemoryCatalog()
	require.NoError(t, c.CreateDatabase("app"))
	assert.Error(t, c.CreateDatabase("app"))
}

func TestMemoryCatalogCreateTableWithoutDatabaseErrors(t *testing.T) {
	c := NewMemoryCatalog()
	err := c.CreateTable("missing", &TableConfig{Name: ast.TableName{Table: "t"}})
	assert.Error(t, err)
}

func TestMemoryCatalogDropDatabaseRemovesItsTables(t *testing.T) {
	c := NewMemoryCatalog()
	require.NoError(t, c.CreateDatabase("app"))
	require.NoError(t, c.CreateTable("app", &TableConfig{Name: ast.TableName{Table: "t"}}))
	require.NoError(t, c.DropDatabase("app"))
	_, ok := c.GetDatabaseConfig("app")
	assert.False(t, ok)
}

func TestMemoryCatalogDropMissingTableErrors(t *testing.T) {
	c := NewMemoryCatalog()
	require.NoError(t, c.CreateDatabase("app"))
	assert.Error(t, c.DropTable("app", "ghost"))
}
