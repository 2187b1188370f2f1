package client

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easydb-io/easydb-go/internal/errs"
	"github.com/easydb-io/easydb-go/internal/logger"
	"github.com/easydb-io/easydb-go/internal/schema"
)

func testDefs() []schema.TableDef {
	return []schema.TableDef{
		{
			Name: "users",
			Columns: []schema.ColumnDef{
				{Name: "name", Type: schema.String},
				{Name: "age", Type: schema.Integer},
			},
		},
		{
			Name: "posts",
			Columns: []schema.ColumnDef{
				{Name: "title", Type: schema.String},
				{Name: "author", Type: schema.Reference("users")},
			},
		},
	}
}

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(testDefs(), WithLogger(logger.Nop()))
	require.NoError(t, err)
	return db
}

func TestNew_BuildsSchema(t *testing.T) {
	db := newTestDB(t)
	assert.Equal(t, 2, db.Schema().TableCount())
	assert.Equal(t, []string{"users", "posts"}, db.Schema().TableNames())
}

func TestNew_RejectsInvalidDefinitions(t *testing.T) {
	_, err := New([]schema.TableDef{
		{Name: "a", Columns: []schema.ColumnDef{
			{Name: "self_ref", Type: schema.Reference("a")},
		}},
	}, WithLogger(logger.Nop()))

	require.Error(t, err)
	assert.True(t, schema.IsSelfReferencingForeignKey(err))
}

func TestInsert_PkStrictlyIncreasing(t *testing.T) {
	db := newTestDB(t)

	pk1, v1, err := db.Insert("users", []any{"alice", 34})
	require.NoError(t, err)
	pk2, v2, err := db.Insert("users", []any{"bob", 27})
	require.NoError(t, err)

	assert.Greater(t, pk2, pk1)
	assert.EqualValues(t, 0, v1)
	assert.EqualValues(t, 0, v2)
}

func TestInsert_UnknownTable(t *testing.T) {
	db := newTestDB(t)
	_, _, err := db.Insert("ghost", []any{"x"})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestInsert_RowValidation(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name   string
		table  string
		values []any
	}{
		{"too few values", "users", []any{"alice"}},
		{"too many values", "users", []any{"alice", 34, "extra"}},
		{"string where integer expected", "users", []any{"alice", "34"}},
		{"integer where string expected", "users", []any{42, 34}},
		{"string where foreign key expected", "posts", []any{"hello", "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := db.Insert(tt.table, tt.values)
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err), "got %v", err)
		})
	}
}

func TestInsert_ForeignKeyValues(t *testing.T) {
	db := newTestDB(t)

	pk, _, err := db.Insert("users", []any{"alice", 34})
	require.NoError(t, err)

	// ForeignID and plain integers are accepted; zero means no reference.
	_, _, err = db.Insert("posts", []any{"hello", ForeignID(pk)})
	assert.NoError(t, err)
	_, _, err = db.Insert("posts", []any{"again", pk})
	assert.NoError(t, err)
	_, _, err = db.Insert("posts", []any{"orphan", ForeignID(0)})
	assert.NoError(t, err)
}

func TestInsert_Concurrent(t *testing.T) {
	db := newTestDB(t)

	const goroutines = 8
	const perGoroutine = 50

	var (
		mu  sync.Mutex
		pks = make(map[int64]bool)
		wg  sync.WaitGroup
	)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				pk, _, err := db.Insert("users", []any{"x", i})
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				assert.False(t, pks[pk], "duplicate pk %d", pk)
				pks[pk] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, pks, goroutines*perGoroutine)
}

func TestUnimplementedOperations(t *testing.T) {
	db := newTestDB(t)

	assert.True(t, errs.IsUnsupported(db.Update("users", 1, []any{"a", 1}, 0)))
	assert.True(t, errs.IsUnsupported(db.Drop("users", 1)))

	_, _, err := db.Get("users", 1)
	assert.True(t, errs.IsUnsupported(err))

	_, err = db.Scan("users", OpEqual, "name", "alice")
	assert.True(t, errs.IsUnsupported(err))
}

func TestConnect_AndClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
		}
	}()

	db := newTestDB(t)
	addr := ln.Addr().(*net.TCPAddr)

	require.NoError(t, db.Connect(context.Background(), "127.0.0.1", addr.Port))

	// Double connect is rejected.
	err = db.Connect(context.Background(), "127.0.0.1", addr.Port)
	assert.True(t, errs.IsInvalidInput(err))

	require.NoError(t, db.Close())
	// Close is idempotent.
	require.NoError(t, db.Close())
}

func TestConnect_Refused(t *testing.T) {
	// Grab a port and release it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	db := newTestDB(t)
	err = db.Connect(context.Background(), "127.0.0.1", port)
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
}

func TestOpCodes(t *testing.T) {
	// Wire values are fixed by the protocol.
	assert.EqualValues(t, 1, OpAll)
	assert.EqualValues(t, 2, OpEqual)
	assert.EqualValues(t, 3, OpNotEqual)
	assert.EqualValues(t, 4, OpLess)
	assert.EqualValues(t, 5, OpGreater)
	assert.EqualValues(t, 6, OpLessEqual)
	assert.EqualValues(t, 7, OpGreaterEqual)
}

func TestSequence(t *testing.T) {
	s := newSequence(1)
	assert.EqualValues(t, 2, s.next())
	assert.EqualValues(t, 3, s.next())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, Duration(5*time.Second), cfg.ConnectTimeout)
	require.NotNil(t, cfg.Log)
}
