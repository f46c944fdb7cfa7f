package asset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/prefabworks/prefabedit/internal/scene"
)

func TestCreateAndScan(t *testing.T) {
	store := NewStore(t.TempDir())
	created, err := store.Create("Wooden Crate")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.GUID == "" {
		t.Fatalf("expected guid to be assigned")
	}
	if !strings.HasSuffix(created.Path, "wooden-crate"+Ext) {
		t.Fatalf("unexpected asset path %s", created.Path)
	}
	if _, err := store.Create("Wooden Crate"); err == nil {
		t.Fatalf("duplicate create should fail")
	}

	infos, err := store.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(infos) != 1 || infos[0].GUID != created.GUID {
		t.Fatalf("scan results: %+v", infos)
	}
}

func TestScanMissingDirIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))
	infos, err := store.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected no templates, got %d", len(infos))
	}
}

func TestInstantiateBindsAndReidentifies(t *testing.T) {
	store := NewStore(t.TempDir())
	info, err := store.Create("Barrel")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := store.Instantiate(info.Path)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if first.Binding == nil || first.Binding.TemplateGUID != info.GUID || first.Binding.TemplatePath != info.Path {
		t.Fatalf("binding not set: %+v", first.Binding)
	}
	second, err := store.Instantiate(info.Path)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("instances must not share object identity")
	}
}

func TestApplyOverwritesTemplateAndKeepsBinding(t *testing.T) {
	store := NewStore(t.TempDir())
	info, err := store.Create("Lantern")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	inst, err := store.Instantiate(info.Path)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}

	inst.Name = "Lantern Mk2"
	inst.Properties = map[string]string{"glow": "warm"}
	inst.Children = append(inst.Children, &scene.Object{ID: scene.NewObjectID(), Name: "Wick"})

	if err := store.Apply(inst); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if inst.Binding == nil {
		t.Fatalf("apply must keep the instance binding intact")
	}

	tmpl, err := store.Load(info.Path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if tmpl.GUID != info.GUID {
		t.Fatalf("apply must not change the template guid")
	}
	if tmpl.Name != "Lantern Mk2" {
		t.Fatalf("template name = %q", tmpl.Name)
	}
	want := inst.Clone()
	want.Binding = nil
	if diff := cmp.Diff(want, tmpl.Root, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("template root mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyRejectsUnboundAndMismatched(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Apply(&scene.Object{ID: "x", Name: "X"}); err == nil {
		t.Fatalf("apply without binding should fail")
	}

	info, err := store.Create("Door")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	inst, err := store.Instantiate(info.Path)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	inst.Binding.TemplateGUID = "someone-else"
	if err := store.Apply(inst); err == nil {
		t.Fatalf("guid mismatch should fail")
	}
}
