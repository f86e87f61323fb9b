package fern

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	tmpl := &StoredTemplate{
		Name:     "greeting",
		Source:   "Hello ${name}!",
		Metadata: map[string]string{"team": "core"},
		Tags:     []string{"demo"},
	}

	require.NoError(t, store.Save(ctx, tmpl))

	// Generated fields are reflected back
	assert.True(t, strings.HasPrefix(string(tmpl.ID), TemplateIDPrefix))
	assert.Equal(t, 1, tmpl.Version)
	assert.False(t, tmpl.CreatedAt.IsZero())

	got, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, got.ID)
	assert.Equal(t, "Hello ${name}!", got.Source)
	assert.Equal(t, map[string]string{"team": "core"}, got.Metadata)
	assert.Equal(t, []string{"demo"}, got.Tags)
}

func TestMemoryStore_Versioning(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	for i, source := range []string{"v1 source", "v2 source", "v3 source"} {
		tmpl := &StoredTemplate{Name: "doc", Source: source}
		require.NoError(t, store.Save(ctx, tmpl))
		assert.Equal(t, i+1, tmpl.Version)
	}

	t.Run("get returns latest", func(t *testing.T) {
		got, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Version)
		assert.Equal(t, "v3 source", got.Source)
	})

	t.Run("get specific version", func(t *testing.T) {
		got, err := store.GetVersion(ctx, "doc", 2)
		require.NoError(t, err)
		assert.Equal(t, "v2 source", got.Source)
	})

	t.Run("list versions newest first", func(t *testing.T) {
		versions, err := store.ListVersions(ctx, "doc")
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 1}, versions)
	})

	t.Run("get by id", func(t *testing.T) {
		v2, err := store.GetVersion(ctx, "doc", 2)
		require.NoError(t, err)

		got, err := store.GetByID(ctx, v2.ID)
		require.NoError(t, err)
		assert.Equal(t, "v2 source", got.Source)
	})
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, IsTemplateNotFound(err))

	_, err = store.GetVersion(ctx, "missing", 1)
	require.Error(t, err)
	assert.True(t, IsTemplateNotFound(err))

	_, err = store.GetByID(ctx, TemplateID("tmpl_nope"))
	require.Error(t, err)
	assert.True(t, IsTemplateNotFound(err))

	err = store.Delete(ctx, "missing")
	require.Error(t, err)
	assert.True(t, IsTemplateNotFound(err))
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "a", Source: "1"}))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "a", Source: "2"}))

	t.Run("delete version", func(t *testing.T) {
		require.NoError(t, store.DeleteVersion(ctx, "a", 1))

		versions, err := store.ListVersions(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []int{2}, versions)

		err = store.DeleteVersion(ctx, "a", 1)
		assert.True(t, IsTemplateNotFound(err))
	})

	t.Run("delete all", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a"))

		exists, err := store.Exists(ctx, "a")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestMemoryStore_DeleteLastVersionRemovesTemplate(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "x", Source: "s"}))
	require.NoError(t, store.DeleteVersion(ctx, "x", 1))

	exists, err := store.Exists(ctx, "x")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStore_List(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "email.welcome", Source: "a", Tags: []string{"email"}}))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "email.welcome", Source: "b", Tags: []string{"email"}}))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "email.goodbye", Source: "c", Tags: []string{"email", "exit"}}))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "report", Source: "d"}))

	t.Run("latest only by default", func(t *testing.T) {
		results, err := store.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "email.goodbye", results[0].Name)
		assert.Equal(t, "email.welcome", results[1].Name)
		assert.Equal(t, 2, results[1].Version)
		assert.Equal(t, "report", results[2].Name)
	})

	t.Run("all versions", func(t *testing.T) {
		results, err := store.List(ctx, &TemplateQuery{IncludeAllVersions: true})
		require.NoError(t, err)
		assert.Len(t, results, 4)
	})

	t.Run("name prefix", func(t *testing.T) {
		results, err := store.List(ctx, &TemplateQuery{NamePrefix: "email."})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("name contains", func(t *testing.T) {
		results, err := store.List(ctx, &TemplateQuery{NameContains: "welcome"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("tags require all", func(t *testing.T) {
		results, err := store.List(ctx, &TemplateQuery{Tags: []string{"email", "exit"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "email.goodbye", results[0].Name)
	})

	t.Run("limit and offset", func(t *testing.T) {
		results, err := store.List(ctx, &TemplateQuery{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "email.welcome", results[0].Name)
	})

	t.Run("offset past end", func(t *testing.T) {
		results, err := store.List(ctx, &TemplateQuery{Offset: 99})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredTemplate{
		Name:     "proto",
		Source:   "s",
		Metadata: map[string]string{"k": "v"},
	}))

	got, err := store.Get(ctx, "proto")
	require.NoError(t, err)
	got.Metadata["k"] = "mutated"
	got.Source = "mutated"

	again, err := store.Get(ctx, "proto")
	require.NoError(t, err)
	assert.Equal(t, "v", again.Metadata["k"])
	assert.Equal(t, "s", again.Source)
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	ctx := context.Background()
	_, err := store.Get(ctx, "any")
	assert.EqualError(t, err, ErrMsgStoreClosed)

	err = store.Save(ctx, &StoredTemplate{Name: "any", Source: "s"})
	assert.EqualError(t, err, ErrMsgStoreClosed)
}

func TestMemoryStore_SaveValidation(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	err := store.Save(context.Background(), &StoredTemplate{Source: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgInvalidTemplateName)
}

func TestMemoryStore_ContextCancelled(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "any")
	assert.ErrorIs(t, err, context.Canceled)
}
