package fern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_Get(t *testing.T) {
	scope := NewScope(map[string]any{
		"name": "Ada",
		"user": map[string]any{
			"tags": []any{"admin", "ops"},
			"age":  36,
		},
	})

	tests := []struct {
		name     string
		path     string
		expected any
		ok       bool
	}{
		{name: "top level", path: "name", expected: "Ada", ok: true},
		{name: "nested", path: "user.age", expected: 36, ok: true},
		{name: "indexed", path: "user.tags[0]", expected: "admin", ok: true},
		{name: "missing key", path: "ghost", ok: false},
		{name: "missing nested", path: "user.ghost", ok: false},
		{name: "invalid path", path: ".name", ok: false},
		{name: "empty path", path: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, ok := scope.Get(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, val)
			}
			assert.Equal(t, tt.ok, scope.Has(tt.path))
		})
	}
}

func TestScope_NilData(t *testing.T) {
	scope := NewScope(nil)
	_, ok := scope.Get("anything")
	assert.False(t, ok)
}

func TestScope_Child(t *testing.T) {
	parent := NewScope(map[string]any{"a": 1, "b": 2})
	child := parent.Child(map[string]any{"b": 20, "c": 30})

	t.Run("child sees own bindings", func(t *testing.T) {
		val, ok := child.Get("c")
		require.True(t, ok)
		assert.Equal(t, 30, val)
	})

	t.Run("child shadows parent", func(t *testing.T) {
		val, ok := child.Get("b")
		require.True(t, ok)
		assert.Equal(t, 20, val)
	})

	t.Run("child falls back to parent", func(t *testing.T) {
		val, ok := child.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, val)
	})

	t.Run("parent is unchanged", func(t *testing.T) {
		val, ok := parent.Get("b")
		require.True(t, ok)
		assert.Equal(t, 2, val)

		_, ok = parent.Get("c")
		assert.False(t, ok)
	})
}

func TestScope_ShadowingIsWholeName(t *testing.T) {
	// Once a binding claims a name, deep misses under it do not fall
	// back to the parent's value for the same name.
	parent := NewScope(map[string]any{
		"item": map[string]any{"note": "parent note"},
	})
	child := parent.Child(map[string]any{
		"item": map[string]any{},
	})

	_, ok := child.Get("item.note")
	assert.False(t, ok)
}

func TestScope_DeepChaining(t *testing.T) {
	root := NewScope(map[string]any{"depth": 0, "root": true})
	s := root
	for i := 1; i <= 5; i++ {
		s = s.Child(map[string]any{"depth": i})
	}

	val, ok := s.Get("depth")
	require.True(t, ok)
	assert.Equal(t, 5, val)

	val, ok = s.Get("root")
	require.True(t, ok)
	assert.Equal(t, true, val)
}
