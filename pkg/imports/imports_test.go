package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uivet/uivet/pkg/frameworks"
)

func TestCheck_MissingNamedImportWarns(t *testing.T) {
	t.Parallel()

	code := `import React from 'react';
const [n, setN] = useState(0);`

	got := Check(code, frameworks.React)

	assert.Equal(t, []string{"Possibly missing import: useState"}, got)
}

func TestCheck_NamedImportSatisfies(t *testing.T) {
	t.Parallel()

	code := `import { useState } from 'react';
const [n, setN] = useState(0);`

	assert.Empty(t, Check(code, frameworks.React))
}

func TestCheck_MixedDefaultAndNamedImport(t *testing.T) {
	t.Parallel()

	code := `import React, { useState, useEffect } from 'react';
useEffect(() => {}, []);
const [n] = useState(0);`

	assert.Empty(t, Check(code, frameworks.React))
}

func TestCheck_DestructuredRequireSatisfies(t *testing.T) {
	t.Parallel()

	code := `import './styles.css';
const { useState } = require('react');
const [n] = useState(0);`

	assert.Empty(t, Check(code, frameworks.React))
}

func TestCheck_DestructuredGlobalSatisfies(t *testing.T) {
	t.Parallel()

	code := `import './boot.js';
const { ref, computed } = Vue;
const n = ref(0);
const d = computed(() => n.value * 2);`

	assert.Empty(t, Check(code, frameworks.Vue))
}

func TestCheck_NoImportLinesSkipsEntirely(t *testing.T) {
	t.Parallel()

	// Inline scratch snippets gate the whole check off.
	code := `const [n, setN] = useState(0);`

	assert.Empty(t, Check(code, frameworks.React))
}

func TestCheck_VanillaNeverWarns(t *testing.T) {
	t.Parallel()

	code := `import { thing } from './thing.js';
useState(0);`

	assert.Empty(t, Check(code, frameworks.Vanilla))
}

func TestCheck_NoUsageNoWarning(t *testing.T) {
	t.Parallel()

	code := `import { useState } from 'react';
const n = 1;`

	assert.Empty(t, Check(code, frameworks.React))
}

func TestCheck_MultipleMissingInTableOrder(t *testing.T) {
	t.Parallel()

	code := `import React from 'react';
useEffect(() => { useRef(null); }, []);`

	got := Check(code, frameworks.React)

	assert.Equal(t, []string{
		"Possibly missing import: useEffect",
		"Possibly missing import: useRef",
	}, got)
}

func TestCheck_AliasKeepsSourceName(t *testing.T) {
	t.Parallel()

	code := `import { useState as useLocal } from 'react';
const [n] = useState(0);`

	assert.Empty(t, Check(code, frameworks.React))
}

func TestCheck_MultilineImportList(t *testing.T) {
	t.Parallel()

	code := `import {
  onMount,
  onDestroy,
} from 'svelte';
onMount(() => {});
onDestroy(() => {});`

	assert.Empty(t, Check(code, frameworks.Svelte))
}

func TestCheck_SolidVocabulary(t *testing.T) {
	t.Parallel()

	code := `import { createSignal } from 'solid-js';
const [n] = createSignal(0);
createEffect(() => console.log(n()));`

	got := Check(code, frameworks.Solid)

	assert.Equal(t, []string{"Possibly missing import: createEffect"}, got)
}

func TestCheck_UsagePatternNeedsCallParen(t *testing.T) {
	t.Parallel()

	// Identifier mentions without a call do not count as usage.
	code := `import React from 'react';
const name = "useState hook";`

	assert.Empty(t, Check(code, frameworks.React))
}

func TestMerge_AppendsCustomPatterns(t *testing.T) {
	t.Parallel()

	custom := Table{
		frameworks.React: {{Usage: "useQuery(", Import: "useQuery"}},
	}

	merged := Builtin().Merge(custom)

	code := `import React from 'react';
const q = useQuery(key);`

	got := merged.Check(code, frameworks.React)

	assert.Equal(t, []string{"Possibly missing import: useQuery"}, got)
}

func TestMerge_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := Builtin()
	before := len(base[frameworks.React])

	base.Merge(Table{frameworks.React: {{Usage: "x(", Import: "x"}}})

	assert.Len(t, base[frameworks.React], before)
}

func TestBuiltin_VanillaTableEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Builtin()[frameworks.Vanilla])
}
