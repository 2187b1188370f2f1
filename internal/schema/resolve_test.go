package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumnType_Primitives(t *testing.T) {
	// Primitives resolve regardless of what tables exist.
	for _, p := range []Primitive{String, Integer, Float} {
		t.Run(p.String(), func(t *testing.T) {
			typ, err := ResolveColumnType(p, "users", nil)
			require.NoError(t, err)
			assert.Equal(t, p, typ)
		})
	}
}

func TestResolveColumnType_ForeignKey(t *testing.T) {
	typ, err := ResolveColumnType(Reference("users"), "posts", []string{"users", "posts"})
	require.NoError(t, err)
	assert.Equal(t, Reference("users"), typ)
}

func TestResolveColumnType_SelfReference(t *testing.T) {
	_, err := ResolveColumnType(Reference("node"), "node", []string{"node"})
	require.Error(t, err)
	assert.True(t, IsSelfReferencingForeignKey(err))
	assert.True(t, IsIntegrity(err))
	assert.Contains(t, err.Error(), "cycle")
}

func TestResolveColumnType_UnknownTarget(t *testing.T) {
	_, err := ResolveColumnType(Reference("ghost"), "posts", []string{"users", "posts"})
	require.Error(t, err)
	assert.True(t, IsUnknownForeignKeyTarget(err))
	assert.True(t, IsIntegrity(err))
	assert.Contains(t, err.Error(), "ghost")
}

func TestResolveColumnType_Unsupported(t *testing.T) {
	tests := []struct {
		name     string
		declared ColumnType
	}{
		{"nil type", nil},
		{"zero primitive", Primitive(0)},
		{"out of range primitive", Primitive(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveColumnType(tt.declared, "users", []string{"users"})
			require.Error(t, err)
			assert.True(t, IsUnsupportedColumnType(err))
			assert.False(t, IsIntegrity(err))
		})
	}
}
