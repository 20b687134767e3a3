package treatments

import (
	"context"
	"errors"
	"sync"

	"github.com/clinicdesk/clinicdesk/internal/storage"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// ErrNotFound is returned when deleting a treatment id absent from
// every category.
var ErrNotFound = errors.New("treatments: treatment not found")

// Catalog is the in-memory treatment menu, mirrored to storage on every
// change. Components that cache the flattened list subscribe to be told
// when it moves under them.
type Catalog struct {
	kv     *storage.KV
	logger *logging.Logger

	mu         sync.RWMutex
	categories []Category
	subs       []func()
}

// NewCatalog loads the catalog from storage, seeding the default menu
// on first run.
func NewCatalog(ctx context.Context, kv *storage.KV, logger *logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Catalog{kv: kv, logger: logger}

	var cats []Category
	if kv != nil && kv.Load(ctx, storage.KeyTreatments, &cats) && len(cats) > 0 {
		c.categories = cats
		return c
	}
	c.categories = DefaultCatalog()
	if kv != nil {
		kv.Save(ctx, storage.KeyTreatments, c.categories)
	}
	return c
}

// Categories returns a copy of the category list in display order.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneCategories(c.categories)
}

// List flattens the catalog: category order first, item order within.
func (c *Catalog) List() []Treatment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Treatment
	for _, cat := range c.categories {
		out = append(out, cat.Items...)
	}
	return out
}

// Find returns the treatment with the given display name.
func (c *Catalog) Find(name string) (Treatment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.categories {
		for _, t := range cat.Items {
			if t.Name == name {
				return t, true
			}
		}
	}
	return Treatment{}, false
}

// DurationFor implements schedule.DurationSource.
func (c *Catalog) DurationFor(treatmentName string) (string, bool) {
	t, ok := c.Find(treatmentName)
	if !ok {
		return "", false
	}
	return t.Duration, true
}

// Upsert replaces the treatment with a matching ID in place, or appends
// a new treatment to the first category.
func (c *Catalog) Upsert(ctx context.Context, t Treatment) {
	c.mu.Lock()
	replaced := false
	for ci := range c.categories {
		for ti := range c.categories[ci].Items {
			if c.categories[ci].Items[ti].ID == t.ID {
				c.categories[ci].Items[ti] = t
				replaced = true
				break
			}
		}
		if replaced {
			break
		}
	}
	if !replaced {
		if len(c.categories) == 0 {
			c.categories = append(c.categories, Category{Name: "Treatments"})
		}
		c.categories[0].Items = append(c.categories[0].Items, t)
	}
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.notify()
}

// Delete removes the treatment from whichever category holds it. A
// category left empty is dropped from the menu.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	found := false
	for ci := 0; ci < len(c.categories); ci++ {
		items := c.categories[ci].Items
		for ti := range items {
			if items[ti].ID == id {
				c.categories[ci].Items = append(items[:ti], items[ti+1:]...)
				found = true
				break
			}
		}
		if found {
			if len(c.categories[ci].Items) == 0 {
				c.categories = append(c.categories[:ci], c.categories[ci+1:]...)
			}
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return ErrNotFound
	}
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.notify()
	return nil
}

// Subscribe registers fn to run after every catalog change. Subscribers
// must be fast; they run on the mutating goroutine.
func (c *Catalog) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Catalog) persistLocked(ctx context.Context) {
	if c.kv != nil {
		c.kv.Save(ctx, storage.KeyTreatments, c.categories)
	}
}

func (c *Catalog) notify() {
	c.mu.RLock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

func cloneCategories(cats []Category) []Category {
	out := make([]Category, len(cats))
	for i, cat := range cats {
		out[i] = Category{Name: cat.Name, Items: append([]Treatment(nil), cat.Items...)}
	}
	return out
}
