package fern

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFilesystemStore(t *testing.T) *FilesystemStore {
	t.Helper()
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewFilesystemStore(t *testing.T) {
	t.Run("creates root directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "templates")
		store, err := NewFilesystemStore(root)
		require.NoError(t, err)
		defer store.Close()

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty root rejected", func(t *testing.T) {
		_, err := NewFilesystemStore("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgInvalidStoreRoot)
	})
}

func TestFilesystemStore_SaveAndGet(t *testing.T) {
	store := newTestFilesystemStore(t)
	ctx := context.Background()

	tmpl := &StoredTemplate{
		Name:     "greeting",
		Source:   "Hello ${name}!",
		Metadata: map[string]string{"team": "core"},
		Tags:     []string{"demo"},
	}
	require.NoError(t, store.Save(ctx, tmpl))
	assert.Equal(t, 1, tmpl.Version)

	got, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, got.ID)
	assert.Equal(t, "Hello ${name}!", got.Source)
	assert.Equal(t, map[string]string{"team": "core"}, got.Metadata)
	assert.Equal(t, []string{"demo"}, got.Tags)
}

func TestFilesystemStore_VersionFiles(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystemStore(root)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "doc", Source: "one"}))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "doc", Source: "two"}))

	// One YAML file per version
	_, err = os.Stat(filepath.Join(root, "doc", "v1.yaml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "doc", "v2.yaml"))
	assert.NoError(t, err)

	got, err := store.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "two", got.Source)

	v1, err := store.GetVersion(ctx, "doc", 1)
	require.NoError(t, err)
	assert.Equal(t, "one", v1.Source)

	versions, err := store.ListVersions(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, versions)
}

func TestFilesystemStore_GetByID(t *testing.T) {
	store := newTestFilesystemStore(t)
	ctx := context.Background()

	first := &StoredTemplate{Name: "a", Source: "1"}
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "b", Source: "2"}))

	got, err := store.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	_, err = store.GetByID(ctx, TemplateID("tmpl_missing"))
	assert.True(t, IsTemplateNotFound(err))
}

func TestFilesystemStore_Delete(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystemStore(root)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "doc", Source: "one"}))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "doc", Source: "two"}))

	t.Run("delete version removes file", func(t *testing.T) {
		require.NoError(t, store.DeleteVersion(ctx, "doc", 1))

		_, err := os.Stat(filepath.Join(root, "doc", "v1.yaml"))
		assert.True(t, os.IsNotExist(err))

		err = store.DeleteVersion(ctx, "doc", 1)
		assert.True(t, IsTemplateNotFound(err))
	})

	t.Run("deleting last version removes directory", func(t *testing.T) {
		require.NoError(t, store.DeleteVersion(ctx, "doc", 2))

		_, err := os.Stat(filepath.Join(root, "doc"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete all versions", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "other", Source: "x"}))
		require.NoError(t, store.Delete(ctx, "other"))

		exists, err := store.Exists(ctx, "other")
		require.NoError(t, err)
		assert.False(t, exists)

		err = store.Delete(ctx, "other")
		assert.True(t, IsTemplateNotFound(err))
	})
}

func TestFilesystemStore_List(t *testing.T) {
	store := newTestFilesystemStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "email.welcome", Source: "a", Tags: []string{"email"}}))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "email.welcome", Source: "b", Tags: []string{"email"}}))
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "report", Source: "c"}))

	t.Run("latest only", func(t *testing.T) {
		results, err := store.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 2, results[0].Version)
	})

	t.Run("all versions", func(t *testing.T) {
		results, err := store.List(ctx, &TemplateQuery{IncludeAllVersions: true})
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("prefix and tags", func(t *testing.T) {
		results, err := store.List(ctx, &TemplateQuery{NamePrefix: "email.", Tags: []string{"email"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "email.welcome", results[0].Name)
	})
}

func TestFilesystemStore_NameValidation(t *testing.T) {
	store := newTestFilesystemStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		tmpl     string
		expected string
	}{
		{
			name:     "path traversal",
			tmpl:     "../escape",
			expected: ErrMsgPathTraversalDetected,
		},
		{
			name:     "embedded traversal",
			tmpl:     "a..b",
			expected: ErrMsgPathTraversalDetected,
		},
		{
			name:     "slash",
			tmpl:     "dir/name",
			expected: ErrMsgInvalidTemplateName,
		},
		{
			name:     "backslash",
			tmpl:     `dir\name`,
			expected: ErrMsgInvalidTemplateName,
		},
		{
			name:     "empty",
			tmpl:     "",
			expected: ErrMsgInvalidTemplateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(ctx, &StoredTemplate{Name: tt.tmpl, Source: "s"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)

			_, err = store.Get(ctx, tt.tmpl)
			require.Error(t, err)
		})
	}
}

func TestFilesystemStore_NotFound(t *testing.T) {
	store := newTestFilesystemStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.True(t, IsTemplateNotFound(err))

	_, err = store.GetVersion(ctx, "missing", 3)
	assert.True(t, IsTemplateNotFound(err))

	versions, err := store.ListVersions(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestFilesystemStore_Closed(t *testing.T) {
	store := newTestFilesystemStore(t)
	require.NoError(t, store.Close())

	_, err := store.Get(context.Background(), "any")
	assert.EqualError(t, err, ErrMsgStoreClosed)
}

func TestFilesystemStore_IgnoresStrayFiles(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystemStore(root)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "doc", Source: "s"}))
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc", "README.md"), []byte("notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644))

	versions, err := store.ListVersions(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, versions)

	results, err := store.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
