package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagechat/internal/core/ports/driven"
)

func TestConfigStore_ImplementsInterface(t *testing.T) {
	var _ driven.ConfigStore = (*ConfigStore)(nil)
}

func TestNewConfigStore_MissingFile(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFile), store.Path())
	assert.Empty(t, store.Keys())
	assert.NoFileExists(t, store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pagechat", ConfigFile), store.Path())
}

func TestConfigStore_LoadsTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[sources]
urls = ["https://a.example/", "https://b.example/"]

[chunking]
size = 500
overlap = 50

[llm]
model = "gpt-4o-mini"
temperature = 0.2

[embedding]
requests_per_second = 2

[index]
persist = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example/", "https://b.example/"}, store.GetStringSlice("sources.urls"))
	assert.Equal(t, 500, store.GetInt("chunking.size"))
	assert.Equal(t, 50, store.GetInt("chunking.overlap"))
	assert.Equal(t, "gpt-4o-mini", store.GetString("llm.model"))
	assert.InDelta(t, 0.2, store.GetFloat("llm.temperature"), 1e-9)
	assert.InDelta(t, 2.0, store.GetFloat("embedding.requests_per_second"), 1e-9)
	assert.False(t, store.GetBool("index.persist"))
	_, ok := store.Get("index.persist")
	assert.True(t, ok)

	assert.Zero(t, store.GetInt("llm.model"))
	assert.Empty(t, store.GetString("chunking.size"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("[chunking\nsize="), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_SetPersistsAsTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.top_k", 6))
	require.NoError(t, store.Set("retrieval.metric", "dot"))
	require.NoError(t, store.Set("ui.title", "Campus Chat"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[retrieval]")
	assert.NotContains(t, string(data), "'retrieval.top_k'")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.GetInt("retrieval.top_k"))
	assert.Equal(t, "dot", reloaded.GetString("retrieval.metric"))
	assert.Equal(t, []string{"retrieval.metric", "retrieval.top_k", "ui.title"}, reloaded.Keys())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFlattenAndNest(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{"b": int64(1), "c": map[string]any{"d": "x"}},
		"e": true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"a.b": int64(1), "a.c.d": "x", "e": true}, flat)
	assert.Equal(t, nested, nestMap(flat))
}
