package repos_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"

	"github.com/ruruk/palcofon/internal/domain"
	"github.com/ruruk/palcofon/internal/repos"
)

func newCategories(t *testing.T) (*repos.Collection[domain.Category], EventBus.Bus, string) {
	t.Helper()
	dir := t.TempDir()
	bus := EventBus.New()
	return repos.NewCollection[domain.Category](dir, "categories", bus), bus, dir
}

func TestCollectionMissingFileIsEmpty(t *testing.T) {
	col, _, _ := newCategories(t)
	items, err := col.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty collection, got %d items", len(items))
	}
	_, found, err := col.Get("nope")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("found a record in a missing file")
	}
}

func TestCollectionCreateAndGet(t *testing.T) {
	col, _, _ := newCategories(t)
	if err := col.Create(domain.Category{ID: "panels", Name: "Panels"}); err != nil {
		t.Fatal(err)
	}
	got, found, err := col.Get("panels")
	if err != nil {
		t.Fatal(err)
	}
	if !found || got.Name != "Panels" {
		t.Fatalf("want Panels, got %+v (found=%v)", got, found)
	}
}

func TestCollectionDuplicateCreateLeavesFileUntouched(t *testing.T) {
	col, _, dir := newCategories(t)
	if err := col.Create(domain.Category{ID: "panels", Name: "Panels"}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "categories.json")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	err = col.Create(domain.Category{ID: "panels", Name: "Other"})
	if !errors.Is(err, repos.ErrDuplicateID) {
		t.Fatalf("want ErrDuplicateID, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("file changed by a rejected create")
	}
}

func TestCollectionUpdatePreservesOrder(t *testing.T) {
	col, _, _ := newCategories(t)
	for _, c := range []domain.Category{
		{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"},
	} {
		if err := col.Create(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := col.Update(domain.Category{ID: "b", Name: "B2"}); err != nil {
		t.Fatal(err)
	}
	items, err := col.All()
	if err != nil {
		t.Fatal(err)
	}
	wantIDs := []string{"a", "b", "c"}
	for i, id := range wantIDs {
		if items[i].ID != id {
			t.Fatalf("order broken at %d: want %s, got %s", i, id, items[i].ID)
		}
	}
	if items[1].Name != "B2" {
		t.Fatalf("update not applied: %+v", items[1])
	}
}

func TestCollectionUpdateAndDeleteMissing(t *testing.T) {
	col, _, _ := newCategories(t)
	if err := col.Update(domain.Category{ID: "ghost", Name: "X"}); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("update: want ErrNotFound, got %v", err)
	}
	if err := col.Delete("ghost"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("delete: want ErrNotFound, got %v", err)
	}
}

func TestCollectionDelete(t *testing.T) {
	col, _, _ := newCategories(t)
	if err := col.Create(domain.Category{ID: "a", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := col.Create(domain.Category{ID: "b", Name: "B"}); err != nil {
		t.Fatal(err)
	}
	if err := col.Delete("a"); err != nil {
		t.Fatal(err)
	}
	items, err := col.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("want [b], got %+v", items)
	}
}

func TestCollectionPublishesOnMutation(t *testing.T) {
	col, bus, _ := newCategories(t)
	var got []string
	if err := bus.Subscribe(repos.CatalogTopic("categories"), func(id string) {
		got = append(got, id)
	}); err != nil {
		t.Fatal(err)
	}

	if err := col.Create(domain.Category{ID: "a", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := col.Update(domain.Category{ID: "a", Name: "A2"}); err != nil {
		t.Fatal(err)
	}
	if err := col.Delete("a"); err != nil {
		t.Fatal(err)
	}

	if len(got) != 3 {
		t.Fatalf("want 3 events, got %v", got)
	}
	for _, id := range got {
		if id != "a" {
			t.Fatalf("unexpected event payload %q", id)
		}
	}
}

func TestCollectionPicksUpOutOfBandEdit(t *testing.T) {
	col, _, dir := newCategories(t)
	if err := col.Create(domain.Category{ID: "a", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := col.All(); err != nil {
		t.Fatal(err)
	}

	// Simulate an edit made outside the process.
	path := filepath.Join(dir, "categories.json")
	edited := `[
  {
    "id": "a",
    "name": "Edited"
  }
]
`
	if err := os.WriteFile(path, []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}
	// Push the mtime forward so the revalidation check cannot miss it.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	got, found, err := col.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if !found || got.Name != "Edited" {
		t.Fatalf("stale read after out-of-band edit: %+v", got)
	}
}

func TestCollectionWritesPrettyJSON(t *testing.T) {
	col, _, dir := newCategories(t)
	if err := col.Create(domain.Category{ID: "a", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "categories.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := `[
  {
    "id": "a",
    "name": "A"
  }
]
`
	if string(raw) != want {
		t.Fatalf("unexpected file layout:\n%s", raw)
	}
}
