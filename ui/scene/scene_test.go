package scene

import (
	"context"
	"testing"
)

func TestDirector_Lifecycle(t *testing.T) {
	ctx := context.Background()
	d := NewDirector("test")

	if d.Current() != Loading {
		t.Fatalf("Expected initial scene %q, got %q", Loading, d.Current())
	}

	entered := 0
	d.OnEnter(Board, func() { entered++ })

	if err := d.Loaded(ctx); err != nil {
		t.Fatalf("Loaded failed: %v", err)
	}
	if !d.Is(Board) {
		t.Errorf("Expected board scene, got %q", d.Current())
	}
	if entered != 1 {
		t.Errorf("Expected board callback once, got %d", entered)
	}

	if err := d.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if err := d.Loaded(ctx); err != nil {
		t.Fatalf("Loaded after reload failed: %v", err)
	}
	if entered != 2 {
		t.Errorf("Expected board callback twice, got %d", entered)
	}

	if err := d.Quit(ctx); err != nil {
		t.Fatalf("Quit failed: %v", err)
	}
	if !d.Is(Quit) {
		t.Errorf("Expected quit scene, got %q", d.Current())
	}
	if err := d.Quit(ctx); err != nil {
		t.Errorf("Second quit should be a no-op, got %v", err)
	}
}

func TestDirector_InvalidTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("reload while loading", func(t *testing.T) {
		d := NewDirector("test")
		if err := d.Reload(ctx); err == nil {
			t.Error("Expected error reloading from the loading scene")
		}
		if !d.Is(Loading) {
			t.Errorf("Scene should be unchanged, got %q", d.Current())
		}
	})

	t.Run("loaded after quit", func(t *testing.T) {
		d := NewDirector("test")
		if err := d.Quit(ctx); err != nil {
			t.Fatalf("Quit failed: %v", err)
		}
		if err := d.Loaded(ctx); err == nil {
			t.Error("Expected error leaving the quit scene")
		}
	})
}
