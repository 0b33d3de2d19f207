package repos

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
)

var (
	ErrDuplicateID = errors.New("id already exists")
	ErrNotFound    = errors.New("record not found")
)

// CatalogTopic is the event bus topic on which a collection announces a
// successful mutation. The event argument is the affected record id
// ("" for deletes of the whole view).
func CatalogTopic(collection string) string { return "catalog:" + collection }

type Record interface {
	RecordID() string
}

// Collection is one catalog file: a flat JSON array read and written
// wholesale. A mutex serializes writers inside the process; concurrent
// processes still race last-writer-wins, which is accepted.
//
// The decoded array is cached and revalidated against the file's mtime so
// reads after an out-of-band edit pick up fresh data without a restart.
type Collection[T Record] struct {
	mu    sync.Mutex
	path  string
	name  string
	bus   EventBus.Bus
	cache []T
	mtime time.Time
}

func NewCollection[T Record](dir, name string, bus EventBus.Bus) *Collection[T] {
	return &Collection[T]{
		path: filepath.Join(dir, name+".json"),
		name: name,
		bus:  bus,
	}
}

func (c *Collection[T]) Name() string { return c.name }
func (c *Collection[T]) Path() string { return c.path }

// load refreshes the cache if the file changed. Callers hold c.mu.
func (c *Collection[T]) load() ([]T, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.cache = []T{}
			c.mtime = time.Time{}
			return c.cache, nil
		}
		return nil, fmt.Errorf("stat %s: %w", c.path, err)
	}
	if c.cache != nil && info.ModTime().Equal(c.mtime) {
		return c.cache, nil
	}
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	c.cache = items
	c.mtime = info.ModTime()
	return items, nil
}

// save writes the full collection back, pretty-printed. The write is not
// atomic; a crash mid-write can corrupt the file (accepted limitation, the
// prior content survives any failure before this point).
func (c *Collection[T]) save(items []T) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(c.path, raw, 0644); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	c.cache = items
	if info, err := os.Stat(c.path); err == nil {
		c.mtime = info.ModTime()
	}
	return nil
}

// All returns a snapshot of the collection in file order.
func (c *Collection[T]) All() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load()
	if err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	copy(out, items)
	return out, nil
}

// Get looks a record up by id. A miss is not an error.
func (c *Collection[T]) Get(id string) (T, bool, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load()
	if err != nil {
		return zero, false, err
	}
	for _, it := range items {
		if it.RecordID() == id {
			return it, true, nil
		}
	}
	return zero, false, nil
}

// Create appends a record. Fails with ErrDuplicateID before touching the
// file if the id is already taken.
func (c *Collection[T]) Create(r T) error {
	if err := c.createLocked(r); err != nil {
		return err
	}
	// Publish outside the lock: the bus delivers synchronously and
	// subscribers may read the collection back.
	c.bus.Publish(CatalogTopic(c.name), r.RecordID())
	return nil
}

func (c *Collection[T]) createLocked(r T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load()
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.RecordID() == r.RecordID() {
			return fmt.Errorf("%s %q: %w", c.name, r.RecordID(), ErrDuplicateID)
		}
	}
	next := make([]T, len(items), len(items)+1)
	copy(next, items)
	next = append(next, r)
	return c.save(next)
}

// Update replaces the record with the same id in place, preserving order.
func (c *Collection[T]) Update(r T) error {
	if err := c.updateLocked(r); err != nil {
		return err
	}
	c.bus.Publish(CatalogTopic(c.name), r.RecordID())
	return nil
}

func (c *Collection[T]) updateLocked(r T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load()
	if err != nil {
		return err
	}
	idx := -1
	for i, it := range items {
		if it.RecordID() == r.RecordID() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s %q: %w", c.name, r.RecordID(), ErrNotFound)
	}
	next := make([]T, len(items))
	copy(next, items)
	next[idx] = r
	return c.save(next)
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(id string) error {
	if err := c.deleteLocked(id); err != nil {
		return err
	}
	c.bus.Publish(CatalogTopic(c.name), id)
	return nil
}

func (c *Collection[T]) deleteLocked(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load()
	if err != nil {
		return err
	}
	next := make([]T, 0, len(items))
	for _, it := range items {
		if it.RecordID() != id {
			next = append(next, it)
		}
	}
	if len(next) == len(items) {
		return fmt.Errorf("%s %q: %w", c.name, id, ErrNotFound)
	}
	return c.save(next)
}
