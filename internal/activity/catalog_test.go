package activity

import "testing"

func TestDefaultCatalogShape(t *testing.T) {
	catalog := DefaultCatalog()

	categories := catalog.Categories()
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %v", categories)
	}

	ids := map[string]bool{}
	for _, category := range categories {
		list := catalog.ByCategory(category)
		if len(list) != 5 {
			t.Fatalf("expected 5 activities in %s, got %d", category, len(list))
		}
		for _, a := range list {
			if ids[a.ID] {
				t.Fatalf("duplicate id %s", a.ID)
			}
			ids[a.ID] = true
			if a.Category != category {
				t.Fatalf("activity %s listed under %s but tagged %s", a.ID, category, a.Category)
			}
			if a.Difficulty < 1 || a.Difficulty > 5 {
				t.Fatalf("activity %s difficulty out of range: %d", a.ID, a.Difficulty)
			}
		}
	}

	if len(catalog.All()) != 15 {
		t.Fatalf("expected 15 activities, got %d", len(catalog.All()))
	}
}

func TestCatalogLookups(t *testing.T) {
	catalog := DefaultCatalog()

	if list := catalog.ByCategory("unknown"); list == nil || len(list) != 0 {
		t.Fatalf("unknown category should return an empty slice, got %#v", list)
	}

	a, ok := catalog.ByID("anger_3")
	if !ok || a.Name != "Reframe Exercise" {
		t.Fatalf("unexpected lookup result %+v (ok=%v)", a, ok)
	}

	if _, ok := catalog.ByID("missing"); ok {
		t.Fatal("expected missing id to be absent")
	}

	if _, ok := catalog.RandomFromCategory("unknown", NewRand(1)); ok {
		t.Fatal("expected no activity from an unknown category")
	}

	// 修改返回的切片不影响目录本身
	list := catalog.ByCategory(CategoryStressRelief)
	list[0].Name = "changed"
	if again, _ := catalog.ByID(list[0].ID); again.Name == "changed" {
		t.Fatal("catalog must not be mutated through returned slices")
	}
}
