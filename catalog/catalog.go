// Package catalog is rrdb's abstraction over "where is this table's schema
// and data", mirroring the shape of the teacher's Database interface
// (database/database.go) — an interface plus a Config-shaped DTO — applied
// to schema/heap lookups instead of a live external DB connection.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/storage"
)

// TableConfig names one table's schema and the heap holding its rows.
type TableConfig struct {
	Name    ast.TableName
	Columns []ast.Column
	Heap    *storage.TableHeap
}

// Column looks up a column definition by name.
func (t *TableConfig) Column(name string) (ast.Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ast.Column{}, false
}

// DatabaseConfig is one database's table set.
type DatabaseConfig struct {
	Name   string
	Tables map[string]*TableConfig
}

// Catalog is the interface the executor consults to resolve a table or
// database name to its schema and storage. Catalog reads are treated as
// eventually consistent per-statement, per spec.md §5 — each statement
// reloads what it needs rather than holding a long-lived snapshot.
type Catalog interface {
	GetDatabaseConfig(database string) (*DatabaseConfig, bool)
	GetTableConfig(database, table string) (*TableConfig, bool)
	ListDatabases() []string
	ListTables(database string) ([]string, bool)
	CreateDatabase(database string) error
	CreateTable(database string, table *TableConfig) error
	DropDatabase(database string) error
	DropTable(database, table string) error
}

// MemoryCatalog is the in-memory reference Catalog implementation: the
// process-wide concurrent map of per-table heaps spec.md §5 describes,
// guarded by a single lock rather than a lock-free map, since the catalog
// itself (as opposed to each heap) is not expected to be hot.
type MemoryCatalog struct {
	mu  sync.RWMutex
	dbs map[string]*DatabaseConfig
}

// NewMemoryCatalog returns an empty catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{dbs: make(map[string]*DatabaseConfig)}
}

func (c *MemoryCatalog) GetDatabaseConfig(database string) (*DatabaseConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.dbs[database]
	return d, ok
}

func (c *MemoryCatalog) GetTableConfig(database, table string) (*TableConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.dbs[database]
	if !ok {
		return nil, false
	}
	t, ok := d.Tables[table]
	return t, ok
}

func (c *MemoryCatalog) ListDatabases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.dbs))
	for name := range c.dbs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c *MemoryCatalog) ListTables(database string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.dbs[database]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(d.Tables))
	for name := range d.Tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, true
}

func (c *MemoryCatalog) CreateDatabase(database string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.dbs[database]; exists {
		return fmt.Errorf("catalog: database %q already exists", database)
	}
	c.dbs[database] = &DatabaseConfig{Name: database, Tables: make(map[string]*TableConfig)}
	return nil
}

func (c *MemoryCatalog) CreateTable(database string, table *TableConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.dbs[database]
	if !ok {
		return fmt.Errorf("catalog: database %q does not exist", database)
	}
	if _, exists := d.Tables[table.Name.Table]; exists {
		return fmt.Errorf("catalog: table %q already exists", table.Name.Table)
	}
	if table.Heap == nil {
		table.Heap = storage.NewTableHeap()
	}
	d.Tables[table.Name.Table] = table
	return nil
}

func (c *MemoryCatalog) DropDatabase(database string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.dbs[database]; !ok {
		return fmt.Errorf("catalog: database %q does not exist", database)
	}
	delete(c.dbs, database)
	return nil
}

func (c *MemoryCatalog) DropTable(database, table string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.dbs[database]
	if !ok {
		return fmt.Errorf("catalog: database %q does not exist", database)
	}
	if _, ok := d.Tables[table]; !ok {
		return fmt.Errorf("catalog: table %q does not exist", table)
	}
	delete(d.Tables, table)
	return nil
}
