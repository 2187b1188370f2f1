package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easydb-io/easydb-go/internal/logger"
	"github.com/easydb-io/easydb-go/internal/schema"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := schema.Build([]schema.TableDef{
		{Name: "users", Columns: []schema.ColumnDef{
			{Name: "name", Type: schema.String},
			{Name: "age", Type: schema.Integer},
		}},
		{Name: "posts", Columns: []schema.ColumnDef{
			{Name: "author", Type: schema.Reference("users")},
		}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(New(s, logger.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)

	var body map[string]string
	status := get(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestGetSchema(t *testing.T) {
	srv := testServer(t)

	var body schemaJSON
	status := get(t, srv.URL+"/schema", &body)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, 2, body.TableCount)
	require.Len(t, body.Tables, 2)
	assert.Equal(t, "users", body.Tables[0].Name)
	assert.Equal(t, "posts", body.Tables[1].Name)
}

func TestGetTable(t *testing.T) {
	srv := testServer(t)

	var body tableJSON
	status := get(t, srv.URL+"/schema/posts", &body)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "posts", body.Name)
	require.Len(t, body.Columns, 1)
	assert.Equal(t, "author", body.Columns[0].Name)
	// Foreign keys render as the referenced table name.
	assert.Equal(t, "users", body.Columns[0].Type)
}

func TestGetTable_NotFound(t *testing.T) {
	srv := testServer(t)

	var body map[string]string
	status := get(t, srv.URL+"/schema/ghost", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "ghost")
}
