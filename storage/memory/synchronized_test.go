package memory

import (
	"sync"
	"testing"

	"github.com/poiesic/memrepo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronized_NilRepository(t *testing.T) {
	repo := NewSynchronized[core.Item, core.ID](nil)

	all := repo.All()
	require.NotNil(t, all)
	assert.Empty(t, all)
}

func TestSynchronized_WrapsExisting(t *testing.T) {
	inner := New[core.Item, core.ID]()
	inner.Save(core.Item{Id: 1, Name: "preloaded"})

	repo := NewSynchronized(inner)

	found, ok := repo.FindByID(1)
	require.True(t, ok)
	assert.Equal(t, "preloaded", found.Name)

	repo.Delete(1)
	assert.Equal(t, 0, repo.Len())
}

func TestSynchronized_ConcurrentAccess(t *testing.T) {
	repo := NewSynchronized[core.Item, core.ID](nil)

	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range perWorker {
				id := core.ID(w*perWorker + i + 1)
				repo.Save(core.Item{Id: id, Name: "concurrent"})
				_, _ = repo.FindByID(id)
				_ = repo.All()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, repo.Len())

	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range perWorker {
				repo.Delete(core.ID(w*perWorker + i + 1))
			}
		}(w)
	}
	wg.Wait()

	assert.Empty(t, repo.All())
}
