package shutdown

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryRunsInPriorityOrder(t *testing.T) {
	registry := NewRegistry()

	var order []string
	step := func(name string) CleanupFunc {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	registry.Register("sweep", 40, step("sweep"))
	registry.Register("logs", 5, step("logs"))
	registry.Register("ledger", 30, step("ledger"))

	if errs := registry.Shutdown(context.Background()); len(errs) != 0 {
		t.Fatalf("Shutdown() errors: %v", errs)
	}

	want := []string{"logs", "ledger", "sweep"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestRegistryTiesKeepRegistrationOrder(t *testing.T) {
	registry := NewRegistry()

	var order []string
	step := func(name string) CleanupFunc {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	registry.Register("first", 10, step("first"))
	registry.Register("second", 10, step("second"))

	registry.Shutdown(context.Background())

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestRegistryCollectsErrorsAndKeepsGoing(t *testing.T) {
	registry := NewRegistry()

	ran := 0
	registry.Register("bad1", 10, func(context.Context) error {
		ran++
		return errors.New("bad1 failed")
	})
	registry.Register("good", 20, func(context.Context) error {
		ran++
		return nil
	})
	registry.Register("bad2", 30, func(context.Context) error {
		ran++
		return errors.New("bad2 failed")
	})

	errs := registry.Shutdown(context.Background())

	if ran != 3 {
		t.Errorf("ran = %d, want 3 (failures must not stop the sequence)", ran)
	}
	if len(errs) != 2 {
		t.Errorf("len(errs) = %d, want 2", len(errs))
	}
}

func TestRegistryShutdownOnce(t *testing.T) {
	registry := NewRegistry()

	ran := 0
	registry.Register("step", 10, func(context.Context) error {
		ran++
		return nil
	})

	registry.Shutdown(context.Background())
	if errs := registry.Shutdown(context.Background()); errs != nil {
		t.Errorf("second Shutdown() = %v, want nil", errs)
	}
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
}

func TestRegistryRegisterAfterShutdownIsNoOp(t *testing.T) {
	registry := NewRegistry()
	registry.Shutdown(context.Background())

	registry.Register("late", 10, func(context.Context) error { return nil })

	if registry.Count() != 0 {
		t.Errorf("Count() = %d, want 0", registry.Count())
	}
}

func TestRegistryNames(t *testing.T) {
	registry := NewRegistry()
	registry.Register("sweep", 40, func(context.Context) error { return nil })
	registry.Register("logs", 5, func(context.Context) error { return nil })

	names := registry.Names()
	if len(names) != 2 || names[0] != "logs" || names[1] != "sweep" {
		t.Errorf("Names() = %v, want [logs sweep]", names)
	}
}
