package main

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/ingestion"
	"github.com/poiesic/memrepo/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsYAML = `
- name: greeting
  contents: hello there
  metadata:
    lang: en
- id: 7
  name: pinned
  contents: fixed identifier
`

func TestReadItems(t *testing.T) {
	t.Run("parses list", func(t *testing.T) {
		items, err := readItems(writeFile(t, "items.yaml", itemsYAML))
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, core.ID(0), items[0].Id)
		assert.Equal(t, "greeting", items[0].Name)
		assert.Equal(t, "hello there", items[0].Contents)
		assert.Equal(t, map[string]string{"lang": "en"}, items[0].Metadata)
		assert.Equal(t, core.ID(7), items[1].Id)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := readItems(writeFile(t, "items.yaml", "name: [unterminated"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse items")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readItems("/nonexistent/items.yaml")
		assert.Error(t, err)
	})
}

func TestLoadCommand(t *testing.T) {
	t.Run("prints loaded items", func(t *testing.T) {
		out, err := runApp(t, "load", "-f", writeFile(t, "items.yaml", itemsYAML))
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "greeting")
		assert.True(t, strings.HasPrefix(lines[1], "7 "))
	})

	t.Run("invalid item aborts", func(t *testing.T) {
		out, err := runApp(t, "load", "-f", writeFile(t, "items.yaml", "- contents: nameless\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrEmptyName)
		assert.Empty(t, out)
	})
}

func TestSeedCommand(t *testing.T) {
	out, err := runApp(t, "seed", "--count", "30", "--batch-size", "7")
	require.NoError(t, err)
	assert.Equal(t, "seeded 30 items, store holds 30\n", out)

	out, err = runApp(t, "seed", "-n", "5", "--report-interval", "2")
	require.NoError(t, err)
	assert.Equal(t, "seeded 5 items, store holds 5\n", out)

	_, err = runApp(t, "seed", "--batch-size", "0")
	assert.Error(t, err)
}

func TestLoadBatched(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()
	loader, err := ingestion.NewLoader(store, ingestion.WithPoolSize(2))
	require.NoError(t, err)
	defer loader.Release()

	total, err := loadBatched(ctx, loader, generateItems(11), 4)
	require.NoError(t, err)
	assert.Equal(t, 11, total)

	all, err := store.All(ctx)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, item := range all {
		names[i] = item.Name
	}
	assert.True(t, slices.IsSorted(names))
	assert.Equal(t, "item-0000", names[0])
	assert.Equal(t, "item-0010", names[10])
}

func TestGenerateItems(t *testing.T) {
	count := 0
	for item := range generateItems(len(sentences) + 1) {
		require.NoError(t, core.ValidateItem(item))
		count++
	}
	assert.Equal(t, len(sentences)+1, count)

	for range generateItems(5) {
		break
	}
}
