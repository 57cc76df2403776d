package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewToolRegistry()
		r.Register(toolIndexCreate)

		meta, ok := r.Get("vector_index_create")
		require.True(t, ok)
		assert.Equal(t, CategoryIndex, meta.Category)
		assert.Equal(t, 1, r.Count())
	})

	t.Run("nil and anonymous entries ignored", func(t *testing.T) {
		r := NewToolRegistry()
		r.Register(nil)
		r.Register(&ToolMetadata{Description: "nameless"})
		assert.Zero(t, r.Count())
	})

	t.Run("list sorted by name", func(t *testing.T) {
		r := NewToolRegistry()
		r.Register(toolIndexQuery)
		r.Register(toolIndexCreate)
		r.Register(toolIndexList)

		names := make([]string, 0, 3)
		for _, meta := range r.List() {
			names = append(names, meta.Name)
		}
		assert.Equal(t, []string{"vector_index_create", "vector_index_list", "vector_index_query"}, names)
	})

	t.Run("list by category", func(t *testing.T) {
		r := NewToolRegistry()
		for _, meta := range Catalog() {
			r.Register(meta)
		}

		assert.Len(t, r.ListByCategory(CategoryIndex), 5)
		assert.Len(t, r.ListByCategory(CategoryVector), 5)
	})

	t.Run("search matches name description and keywords", func(t *testing.T) {
		r := NewToolRegistry()
		for _, meta := range Catalog() {
			r.Register(meta)
		}

		byKeyword := r.Search("ndjson")
		require.Len(t, byKeyword, 2)

		byName := r.Search("QUERY")
		require.NotEmpty(t, byName)
		assert.Equal(t, "vector_index_query", byName[0].Name)

		assert.Nil(t, r.Search(""))
		assert.Empty(t, r.Search("no-such-tool"))
	})
}

func TestNewServer(t *testing.T) {
	t.Run("registers the full catalog", func(t *testing.T) {
		s := newTestServer(t, &fakeAPI{})
		assert.Equal(t, len(Catalog()), s.Registry().Count())
		for _, meta := range Catalog() {
			_, ok := s.Registry().Get(meta.Name)
			assert.True(t, ok, "tool %s must be registered", meta.Name)
		}
	})

	t.Run("requires API and resolver", func(t *testing.T) {
		_, err := NewServer(nil, nil, nil)
		assert.Error(t, err)
	})
}
