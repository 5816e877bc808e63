package frameworks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SupportedNames(t *testing.T) {
	t.Parallel()

	for _, fw := range All() {
		got, err := Parse(fw.String())

		require.NoError(t, err)
		assert.Equal(t, fw, got)
	}
}

func TestParse_NormalizesCaseAndSpace(t *testing.T) {
	t.Parallel()

	got, err := Parse("  React ")

	require.NoError(t, err)
	assert.Equal(t, React, got)
}

func TestParse_UnknownName(t *testing.T) {
	t.Parallel()

	_, err := Parse("angular")

	require.ErrorIs(t, err, ErrUnknown)
	assert.Contains(t, err.Error(), "angular")
}

func TestAll_StableOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Framework{React, Vue, Svelte, Solid, Vanilla}, All())
}

func TestDetectFile_ByExtension(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want Framework
	}{
		{"App.vue", Vue},
		{"Widget.svelte", Svelte},
		{"Card.jsx", React},
		{"Card.tsx", React},
	}

	for _, tc := range cases {
		got, ok := DetectFile(tc.name, nil)

		require.True(t, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestDetectFile_SolidOverridesJSXExtension(t *testing.T) {
	t.Parallel()

	content := []byte("import { createSignal } from 'solid-js';")

	got, ok := DetectFile("Counter.jsx", content)

	require.True(t, ok)
	assert.Equal(t, Solid, got)
}

func TestDetectFile_PlainJSSniffsModules(t *testing.T) {
	t.Parallel()

	got, ok := DetectFile("app.js", []byte(`import { ref } from "vue";`))

	require.True(t, ok)
	assert.Equal(t, Vue, got)
}

func TestDetectFile_PlainJSWithoutModulesIsVanilla(t *testing.T) {
	t.Parallel()

	got, ok := DetectFile("util.js", []byte("export function add(a, b) { return a + b; }"))

	require.True(t, ok)
	assert.Equal(t, Vanilla, got)
}

func TestDetectFile_UnsupportedFile(t *testing.T) {
	t.Parallel()

	_, ok := DetectFile("main.go", []byte("package main"))

	assert.False(t, ok)
}

func TestSupportedExtensions_CoverFrameworkFiles(t *testing.T) {
	t.Parallel()

	exts := SupportedExtensions()

	assert.Contains(t, exts, ".tsx")
	assert.Contains(t, exts, ".vue")
	assert.Contains(t, exts, ".svelte")
}
