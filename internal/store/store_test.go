package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/validator"
)

func sampleRecords() []Record {
	return []Record{
		{
			Path:      "src/App.jsx",
			Framework: frameworks.React,
			SHA256:    HashContent([]byte("<div/>")),
			Result:    validator.Result{Valid: true, Errors: []string{}, Warnings: []string{}},
		},
		{
			Path:      "src/Broken.jsx",
			Framework: frameworks.React,
			SHA256:    HashContent([]byte("<div>")),
			Result: validator.Result{
				Valid:    false,
				Errors:   []string{"Unclosed tag: <div>"},
				Warnings: []string{},
			},
		},
	}
}

func TestWriteReadRecords_Plain(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.jsonl")
	want := sampleRecords()

	require.NoError(t, WriteRecords(path, want))

	got, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteReadRecords_LZ4(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.jsonl.lz4")
	want := sampleRecords()

	require.NoError(t, WriteRecords(path, want))

	got, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHashContent_Stable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashContent([]byte("abc")), HashContent([]byte("abc")))
	assert.NotEqual(t, HashContent([]byte("abc")), HashContent([]byte("abd")))
}

func TestCache_RoundTrip(t *testing.T) {
	t.Parallel()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	hash := HashContent([]byte("<div><p>Hello</p>"))
	want := validator.Result{
		Valid:    false,
		Errors:   []string{"Unclosed tag: <div>"},
		Warnings: []string{},
	}

	require.NoError(t, cache.Put(hash, frameworks.React, want))

	got, ok := cache.Get(hash, frameworks.React)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCache_MissOnDifferentFramework(t *testing.T) {
	t.Parallel()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	hash := HashContent([]byte("const x = ref(0);"))
	require.NoError(t, cache.Put(hash, frameworks.Vue, validator.Result{Valid: true, Errors: []string{}, Warnings: []string{}}))

	_, ok := cache.Get(hash, frameworks.Svelte)
	assert.False(t, ok)
}

func TestCache_MissOnUnknownHash(t *testing.T) {
	t.Parallel()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	_, ok := cache.Get("deadbeef", frameworks.React)
	assert.False(t, ok)
}
