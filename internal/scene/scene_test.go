package scene

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadMissingSceneFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.scene"))
	if err == nil {
		t.Fatalf("expected error for missing scene")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "work.scene")
	ws := New(path, "Work")
	root := &Object{
		ID:   NewObjectID(),
		Name: "Crate",
		Binding: &Binding{
			TemplateGUID: "guid-1",
			TemplatePath: "/assets/crate.prefab",
		},
		Properties: map[string]string{"material": "wood"},
		Children: []*Object{
			{ID: NewObjectID(), Name: "Lid"},
		},
	}
	ws.AddRoot(root)
	if !ws.Dirty() {
		t.Fatalf("adding a root should mark the workspace dirty")
	}
	if err := ws.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ws.Dirty() {
		t.Fatalf("save should clear the dirty flag")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Label != "Work" {
		t.Fatalf("label = %q, want Work", loaded.Label)
	}
	if len(loaded.Roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(loaded.Roots))
	}
	got := loaded.Roots[0]
	if got.Binding == nil || got.Binding.TemplateGUID != "guid-1" {
		t.Fatalf("binding not preserved: %+v", got.Binding)
	}
	if got.Properties["material"] != "wood" {
		t.Fatalf("properties not preserved: %+v", got.Properties)
	}
	if len(got.Children) != 1 || got.Children[0].Name != "Lid" {
		t.Fatalf("children not preserved")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	ws := New(filepath.Join(t.TempDir(), "s.scene"), "S")
	ws.AddRoot(&Object{ID: "a", Name: "A"})
	ws.Clear()
	if len(ws.Roots) != 0 {
		t.Fatalf("clear left %d roots", len(ws.Roots))
	}
	ws.Clear()
	if len(ws.Roots) != 0 {
		t.Fatalf("second clear changed state")
	}
}

func TestDestroyRemovesSubtreeAnywhere(t *testing.T) {
	ws := New(filepath.Join(t.TempDir(), "s.scene"), "S")
	child := &Object{ID: "child", Name: "Child"}
	ws.AddRoot(&Object{ID: "root", Name: "Root", Children: []*Object{child}})
	ws.AddRoot(&Object{ID: "other", Name: "Other"})

	if !ws.Destroy("child") {
		t.Fatalf("expected child to be destroyed")
	}
	if ws.Find("child") != nil {
		t.Fatalf("child still present after destroy")
	}
	if !ws.Destroy("other") {
		t.Fatalf("expected top-level destroy to succeed")
	}
	if ws.Destroy("missing") {
		t.Fatalf("destroy of unknown id should report false")
	}
	if len(ws.Roots) != 1 || ws.Roots[0].ID != "root" {
		t.Fatalf("unexpected roots after destroy: %d", len(ws.Roots))
	}
}

func TestInstantiationRootWalksUp(t *testing.T) {
	ws := New(filepath.Join(t.TempDir(), "s.scene"), "S")
	leaf := &Object{ID: "leaf", Name: "Leaf"}
	bound := &Object{
		ID:       "bound",
		Name:     "Bound",
		Binding:  &Binding{TemplateGUID: "g", TemplatePath: "p"},
		Children: []*Object{{ID: "mid", Name: "Mid", Children: []*Object{leaf}}},
	}
	plain := &Object{ID: "plain", Name: "Plain", Children: []*Object{{ID: "pc", Name: "PC"}}}
	ws.AddRoot(bound)
	ws.AddRoot(plain)

	root, ok := ws.InstantiationRoot("leaf")
	if !ok || root == nil || root.ID != "bound" {
		t.Fatalf("leaf should resolve to the bound root, got %v ok=%v", root, ok)
	}
	if _, ok := ws.InstantiationRoot("pc"); ok {
		t.Fatalf("child of an unbound root must not resolve to an instantiation root")
	}
	if _, ok := ws.InstantiationRoot("missing"); ok {
		t.Fatalf("unknown id must not resolve")
	}
}

func TestCloneAndReidentify(t *testing.T) {
	orig := &Object{
		ID:         "one",
		Name:       "One",
		Properties: map[string]string{"k": "v"},
		Children:   []*Object{{ID: "two", Name: "Two"}},
	}
	copy := orig.Clone()
	copy.Reidentify()
	if copy.ID == orig.ID || copy.Children[0].ID == orig.Children[0].ID {
		t.Fatalf("reidentify must assign fresh ids")
	}
	copy.Properties["k"] = "changed"
	copy.Children[0].Name = "Renamed"
	if orig.Properties["k"] != "v" || orig.Children[0].Name != "Two" {
		t.Fatalf("clone must not share state with the original")
	}
}

func TestBoundRootsPreservesSceneOrder(t *testing.T) {
	ws := New(filepath.Join(t.TempDir(), "s.scene"), "S")
	ws.AddRoot(&Object{ID: "a", Binding: &Binding{TemplateGUID: "ga"}})
	ws.AddRoot(&Object{ID: "b"})
	ws.AddRoot(&Object{ID: "c", Binding: &Binding{TemplateGUID: "gc"}})

	bound := ws.BoundRoots()
	if len(bound) != 2 || bound[0].ID != "a" || bound[1].ID != "c" {
		t.Fatalf("unexpected bound roots: %+v", bound)
	}
}
