package store

import (
	"context"
	"testing"
	"time"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

func sampleSpec(kind spec.Kind) spec.Spec {
	return spec.Spec{
		Version: spec.Version,
		Kind:    kind,
		Canvas:  spec.Canvas{W: 800, H: 800, Unit: spec.UnitPoints},
		Elements: []spec.Element{
			{ID: "c", Type: spec.TypeContainer,
				Rect:  spec.Rect{W: 100, H: 100},
				Props: &spec.ContainerProps{Fill: "#fff"}},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	rec := NewRecord(spec.KindModule, "card", "user1", sampleSpec(spec.KindModule))
	if rec.ID == "" {
		t.Fatal("record has no id")
	}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("record missing after Put")
	}
	if got.Name != "card" || got.Owner != "user1" || got.Kind != spec.KindModule {
		t.Errorf("metadata lost: %+v", got)
	}
	if len(got.Spec.Elements) != 1 || got.Spec.Elements[0].ID != "c" {
		t.Errorf("spec lost: %+v", got.Spec)
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get(ctx, rec.ID); got != nil {
		t.Error("record survived delete")
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Errorf("double delete: %v", err)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	got, err := s.Get(context.Background(), "nope")
	if err != nil || got != nil {
		t.Errorf("missing record: rec=%v err=%v", got, err)
	}
}

func TestFileStoreListFilters(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	layout := NewRecord(spec.KindLayout, "grid", "u1", sampleSpec(spec.KindLayout))
	mod1 := NewRecord(spec.KindModule, "card", "u1", sampleSpec(spec.KindModule))
	mod2 := NewRecord(spec.KindModule, "hero", "u2", sampleSpec(spec.KindModule))
	for _, rec := range []*Record{layout, mod1, mod2} {
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
		time.Sleep(2 * time.Millisecond) // distinct UpdatedAt for ordering
	}

	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all records = %d, want 3", len(all))
	}
	if all[0].ID != mod2.ID {
		t.Error("records not newest first")
	}

	modules, err := s.List(ctx, Filter{Kind: spec.KindModule})
	if err != nil {
		t.Fatalf("List modules: %v", err)
	}
	if len(modules) != 2 {
		t.Errorf("modules = %d, want 2", len(modules))
	}

	owned, err := s.List(ctx, Filter{Kind: spec.KindModule, Owner: "u2"})
	if err != nil {
		t.Fatalf("List owned: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != mod2.ID {
		t.Errorf("owned = %+v", owned)
	}
}

func TestSourceLookup(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	rec := NewRecord(spec.KindLayout, "grid", "", sampleSpec(spec.KindLayout))
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	src := NewSource(ctx, s)
	got, ok := src.Lookup(rec.ID)
	if !ok {
		t.Fatal("stored spec not resolvable")
	}
	if got.Kind != spec.KindLayout {
		t.Errorf("kind = %q", got.Kind)
	}
	if _, ok := src.Lookup("missing"); ok {
		t.Error("missing id resolved")
	}
}
