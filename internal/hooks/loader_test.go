package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/prefabworks/prefabedit/internal/savehook"
)

const hookSource = `package main

func BeforeSave(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "skip.scene" {
			out = append(out, p)
		}
	}
	return out
}`

func TestLoadDirCollectsHooks(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "filter.go"), []byte(hookSource), 0o644); err != nil {
		t.Fatalf("write hook: %v", err)
	}
	files, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load hooks: %v", err)
	}
	if len(files) != 1 || files[0].Name != "filter.go" {
		t.Fatalf("unexpected hook files: %+v", files)
	}
	got := files[0].Hook([]string{"keep.scene", "skip.scene"})
	if diff := cmp.Diff([]string{"keep.scene"}, got); diff != "" {
		t.Fatalf("hook result (-want +got):\n%s", diff)
	}
}

func TestLoadDirMissingDirYieldsNoHooks(t *testing.T) {
	files, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("load hooks: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no hooks, got %d", len(files))
	}
}

func TestLoadDirMissingFuncFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("write broken hook: %v", err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Fatalf("expected error for missing BeforeSave function")
	}
}

func TestRegisterAllWiresHooksIntoPipeline(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "filter.go"), []byte(hookSource), 0o644); err != nil {
		t.Fatalf("write hook: %v", err)
	}
	pipe := savehook.NewPipeline()
	if err := RegisterAll(pipe, dir); err != nil {
		t.Fatalf("register hooks: %v", err)
	}
	if pipe.Len() != 1 {
		t.Fatalf("pipeline has %d hooks, want 1", pipe.Len())
	}
	got := pipe.Run([]string{"a.scene", "skip.scene"})
	if diff := cmp.Diff([]string{"a.scene"}, got); diff != "" {
		t.Fatalf("pipeline result (-want +got):\n%s", diff)
	}
}
