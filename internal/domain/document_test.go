package domain

import (
	"errors"
	"testing"
)

func sampleDoc() NavDocument {
	return NavDocument{Categories: []Category{
		NewPersonalCategory(),
		{ID: "video", Name: "Video", Sites: []Site{
			{ID: "s1", Title: "One", URL: "https://one.example"},
			{ID: "s2", Title: "Two", URL: "https://two.example"},
		}},
		{ID: "music", Name: "Music", Sites: []Site{
			{ID: "s3", Title: "Three", URL: "https://three.example"},
		}},
	}}
}

func personalCount(d NavDocument) int {
	n := 0
	for _, c := range d.Categories {
		if c.IsPersonal() {
			n++
		}
	}
	return n
}

func TestNavDocument_CloneIsolation(t *testing.T) {
	orig := sampleDoc()
	clone := orig.Clone()

	clone.Categories[1].Sites[0].Title = "changed"
	clone.Categories[1].Sites = append(clone.Categories[1].Sites, Site{ID: "x"})

	if orig.Categories[1].Sites[0].Title != "One" {
		t.Errorf("clone mutation leaked into original: %q", orig.Categories[1].Sites[0].Title)
	}
	if len(orig.Categories[1].Sites) != 2 {
		t.Errorf("expected original to keep 2 sites, got %d", len(orig.Categories[1].Sites))
	}
}

func TestNavDocument_WithPersonalFirst(t *testing.T) {
	base := NavDocument{Categories: []Category{
		{ID: "video", Name: "Video", Sites: []Site{{ID: "s1"}}},
		{ID: PersonalCategoryID, Name: "stale", Sites: []Site{{ID: "old"}}},
	}}
	personal := Category{ID: PersonalCategoryID, Name: "Mine", Sites: []Site{{ID: "p1"}}}

	merged := base.WithPersonalFirst(personal)

	if personalCount(merged) != 1 {
		t.Fatalf("expected exactly one personal category, got %d", personalCount(merged))
	}
	if !merged.Categories[0].IsPersonal() || merged.Categories[0].Name != "Mine" {
		t.Errorf("expected stored personal category first, got %+v", merged.Categories[0])
	}
	if len(merged.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(merged.Categories))
	}
}

func TestNavDocument_PruneEmpty(t *testing.T) {
	doc := NavDocument{Categories: []Category{
		NewPersonalCategory(),
		{ID: "empty", Name: "Empty", Sites: []Site{}},
		{ID: "full", Name: "Full", Sites: []Site{{ID: "s"}}},
	}}

	pruned := doc.PruneEmpty()

	if len(pruned.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(pruned.Categories))
	}
	if pruned.Categories[0].ID != PersonalCategoryID || pruned.Categories[1].ID != "full" {
		t.Errorf("unexpected categories after prune: %+v", pruned.Categories)
	}
}

func TestNavDocument_EnsurePersonal(t *testing.T) {
	tests := []struct {
		name      string
		doc       NavDocument
		wantFirst string
		wantLen   int
	}{
		{
			name:      "adds missing personal category",
			doc:       NavDocument{Categories: []Category{{ID: "a", Sites: []Site{{ID: "1"}}}}},
			wantFirst: PersonalCategoryID,
			wantLen:   2,
		},
		{
			name: "drops duplicates keeping the first",
			doc: NavDocument{Categories: []Category{
				{ID: "a", Sites: []Site{{ID: "1"}}},
				{ID: PersonalCategoryID, Name: "first"},
				{ID: PersonalCategoryID, Name: "second"},
			}},
			wantFirst: "a",
			wantLen:   2,
		},
		{
			name:      "empty document gets a personal category",
			doc:       NavDocument{},
			wantFirst: PersonalCategoryID,
			wantLen:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tt.doc
			doc.EnsurePersonal()

			if personalCount(doc) != 1 {
				t.Errorf("expected one personal category, got %d", personalCount(doc))
			}
			if len(doc.Categories) != tt.wantLen {
				t.Errorf("expected %d categories, got %d", tt.wantLen, len(doc.Categories))
			}
			if doc.Categories[0].ID != tt.wantFirst {
				t.Errorf("expected first category %s, got %s", tt.wantFirst, doc.Categories[0].ID)
			}
			for _, c := range doc.Categories {
				if c.Sites == nil {
					t.Errorf("category %s has nil sites", c.ID)
				}
			}
		})
	}
}

func TestNavDocument_AddSite(t *testing.T) {
	doc := sampleDoc()

	added, err := doc.AddSite("video", Site{Title: "New", URL: "https://new.example"})
	if err != nil {
		t.Fatalf("AddSite failed: %v", err)
	}
	if added.ID == "" {
		t.Error("expected generated id")
	}
	if doc.Categories[1].Sites[0].ID != added.ID {
		t.Errorf("expected new site at head, got %s", doc.Categories[1].Sites[0].ID)
	}

	_, err = doc.AddSite("missing", Site{Title: "x"})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestNavDocument_DeleteSite(t *testing.T) {
	t.Run("keeps category with remaining sites", func(t *testing.T) {
		doc := sampleDoc()
		if _, err := doc.DeleteSite("s1"); err != nil {
			t.Fatalf("DeleteSite failed: %v", err)
		}
		if len(doc.Categories) != 3 {
			t.Errorf("expected 3 categories, got %d", len(doc.Categories))
		}
	})

	t.Run("removes emptied non-personal category", func(t *testing.T) {
		doc := sampleDoc()
		if _, err := doc.DeleteSite("s3"); err != nil {
			t.Fatalf("DeleteSite failed: %v", err)
		}
		if doc.CategoryIndex("music") >= 0 {
			t.Error("expected empty music category to be removed")
		}
	})

	t.Run("never removes the personal category", func(t *testing.T) {
		doc := NavDocument{Categories: []Category{
			{ID: PersonalCategoryID, Name: "Mine", Sites: []Site{{ID: "p"}}},
		}}
		if _, err := doc.DeleteSite("p"); err != nil {
			t.Fatalf("DeleteSite failed: %v", err)
		}
		if len(doc.Categories) != 1 || !doc.Categories[0].IsPersonal() {
			t.Errorf("expected personal category to survive, got %+v", doc.Categories)
		}
	})

	t.Run("unknown site", func(t *testing.T) {
		doc := sampleDoc()
		if _, err := doc.DeleteSite("nope"); !errors.Is(err, ErrUnknownSite) {
			t.Errorf("expected ErrUnknownSite, got %v", err)
		}
	})
}

func TestNavDocument_MoveSite(t *testing.T) {
	t.Run("reorders within a category", func(t *testing.T) {
		doc := sampleDoc()
		if err := doc.MoveSite("s2", "video", 0); err != nil {
			t.Fatalf("MoveSite failed: %v", err)
		}
		got := doc.Categories[1].Sites
		if got[0].ID != "s2" || got[1].ID != "s1" {
			t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
		}
	})

	t.Run("cross-category move drops emptied source", func(t *testing.T) {
		doc := sampleDoc()
		if err := doc.MoveSite("s3", PersonalCategoryID, -1); err != nil {
			t.Fatalf("MoveSite failed: %v", err)
		}
		if doc.CategoryIndex("music") >= 0 {
			t.Error("expected emptied music category to be removed")
		}
		p, _ := doc.Personal()
		if len(p.Sites) != 1 || p.Sites[0].ID != "s3" {
			t.Errorf("expected s3 in personal category, got %+v", p.Sites)
		}
	})
}

func TestNavDocument_AddCategoryUniqueID(t *testing.T) {
	doc := sampleDoc()
	c := doc.AddCategory("Video")
	if c.ID != "video-2" {
		t.Errorf("expected video-2, got %s", c.ID)
	}
	if personalCount(doc) != 1 {
		t.Errorf("expected one personal category, got %d", personalCount(doc))
	}
}

func TestNavDocument_Search(t *testing.T) {
	doc := sampleDoc()
	hits := doc.Search("TWO")
	if len(hits) != 1 || hits[0].Site.ID != "s2" || hits[0].CategoryID != "video" {
		t.Errorf("unexpected hits: %+v", hits)
	}
}
