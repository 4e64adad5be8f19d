package memory

import (
	"slices"
	"testing"

	"github.com/poiesic/memrepo/core"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// itemGen draws items from a small ID space so duplicates are common.
func itemGen() *rapid.Generator[core.Item] {
	return rapid.Custom(func(t *rapid.T) core.Item {
		return core.Item{
			Id:       core.ID(rapid.Uint64Range(1, 8).Draw(t, "id")),
			Name:     rapid.StringN(1, 8, -1).Draw(t, "name"),
			Contents: rapid.String().Draw(t, "contents"),
		}
	})
}

func firstIndex(items []core.Item, id core.ID) int {
	return slices.IndexFunc(items, func(item core.Item) bool { return item.Id == id })
}

// TestRepository_Properties runs random operation sequences against a
// reference slice and checks both agree after every step.
func TestRepository_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo := New[core.Item, core.ID]()
		model := []core.Item{}

		rt.Repeat(map[string]func(*rapid.T){
			"save": func(rt *rapid.T) {
				item := itemGen().Draw(rt, "item")
				before := len(repo.All())

				repo.Save(item)
				model = append(model, item)

				after := repo.All()
				if len(after) != before+1 {
					rt.Fatalf("save grew repository by %d, want 1", len(after)-before)
				}
				if after[len(after)-1].Id != item.Id || after[len(after)-1].Name != item.Name {
					rt.Fatalf("saved item not appended at the end")
				}
			},
			"find": func(rt *rapid.T) {
				id := core.ID(rapid.Uint64Range(0, 9).Draw(rt, "id"))

				found, ok := repo.FindByID(id)
				i := firstIndex(model, id)
				if (i >= 0) != ok {
					rt.Fatalf("FindByID(%d) ok=%v, model index %d", id, ok, i)
				}
				if ok && found.Name != model[i].Name {
					rt.Fatalf("FindByID(%d) returned %q, want first inserted %q", id, found.Name, model[i].Name)
				}
			},
			"delete": func(rt *rapid.T) {
				id := core.ID(rapid.Uint64Range(0, 9).Draw(rt, "id"))
				before := repo.All()

				repo.Delete(id)
				if i := firstIndex(model, id); i >= 0 {
					model = slices.Delete(model, i, i+1)
					if len(repo.All()) != len(before)-1 {
						rt.Fatalf("Delete(%d) did not remove exactly one record", id)
					}
				} else if !slices.EqualFunc(before, repo.All(), itemsEqual) {
					rt.Fatalf("Delete(%d) of a missing id changed the repository", id)
				}
			},
			"": func(rt *rapid.T) {
				if !slices.EqualFunc(model, repo.All(), itemsEqual) {
					rt.Fatalf("repository diverged from model")
				}
			},
		})
	})
}

func TestRepository_SaveThenFind_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo := New[core.Item, core.ID]()
		item := itemGen().Draw(rt, "item")

		repo.Save(item)

		found, ok := repo.FindByID(item.Id)
		require.True(rt, ok)
		require.Equal(rt, item, found)

		repo.Delete(item.Id)
		require.Empty(rt, repo.All())
	})
}

func itemsEqual(a, b core.Item) bool {
	return a.Id == b.Id && a.Name == b.Name && a.Contents == b.Contents
}
