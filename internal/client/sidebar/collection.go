package sidebar

import (
	"github.com/tidwall/btree"

	"github.com/iudanet/sidenotes/internal/models"
)

// collection keeps notes ordered newest first with an id index.
type collection struct {
	tree *btree.BTree
	byID map[string]models.Note
}

func byNewest(a, b interface{}) bool {
	return models.NewerFirst(a.(models.Note), b.(models.Note))
}

func newCollection() *collection {
	return &collection{
		tree: btree.NewNonConcurrent(byNewest),
		byID: make(map[string]models.Note),
	}
}

func (c *collection) get(id string) (models.Note, bool) {
	n, ok := c.byID[id]
	return n, ok
}

// upsert вставляет или заменяет заметку с тем же id
func (c *collection) upsert(n models.Note) {
	if old, ok := c.byID[n.ID]; ok {
		c.tree.Delete(old)
	}
	c.tree.Set(n)
	c.byID[n.ID] = n
}

// insert adds n only when its id is absent.
func (c *collection) insert(n models.Note) bool {
	if _, ok := c.byID[n.ID]; ok {
		return false
	}
	c.tree.Set(n)
	c.byID[n.ID] = n
	return true
}

func (c *collection) remove(id string) bool {
	old, ok := c.byID[id]
	if !ok {
		return false
	}
	c.tree.Delete(old)
	delete(c.byID, id)
	return true
}

func (c *collection) replace(notes []models.Note) {
	c.tree = btree.NewNonConcurrent(byNewest)
	c.byID = make(map[string]models.Note, len(notes))
	for _, n := range notes {
		c.upsert(n)
	}
}

func (c *collection) list() []models.Note {
	notes := make([]models.Note, 0, c.tree.Len())
	c.tree.Ascend(nil, func(item interface{}) bool {
		notes = append(notes, item.(models.Note))
		return true
	})
	return notes
}

func (c *collection) len() int {
	return c.tree.Len()
}
