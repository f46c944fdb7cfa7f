package savehook

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRunExecutesHooksInRegistrationOrder(t *testing.T) {
	pipe := NewPipeline()
	var seen []string
	pipe.Register("first", func(paths []string) []string {
		seen = append(seen, "first")
		return paths
	})
	pipe.Register("second", func(paths []string) []string {
		seen = append(seen, "second")
		return append(paths, "extra.scene")
	})

	got := pipe.Run([]string{"a.scene"})
	if diff := cmp.Diff([]string{"first", "second"}, seen); diff != "" {
		t.Fatalf("hook order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.scene", "extra.scene"}, got); diff != "" {
		t.Fatalf("final paths (-want +got):\n%s", diff)
	}
}

func TestNilHookResultKeepsPreviousSet(t *testing.T) {
	pipe := NewPipeline()
	pipe.Register("broken", func([]string) []string { return nil })
	got := pipe.Run([]string{"a.scene", "b.scene"})
	if diff := cmp.Diff([]string{"a.scene", "b.scene"}, got); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
}

func TestRegisterIgnoresNilHook(t *testing.T) {
	pipe := NewPipeline()
	pipe.Register("nil", nil)
	if pipe.Len() != 0 {
		t.Fatalf("nil hook must not be registered")
	}
}
