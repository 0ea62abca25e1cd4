package rates

import "testing"

func TestWindowAllowsUpToMaxThenCoolsDown(t *testing.T) {
	var w Window
	for i := 0; i < 3; i++ {
		if ok, _ := w.Allow(10, 5, 3); !ok {
			t.Fatalf("event %d rejected", i)
		}
	}
	ok, cool := w.Allow(12, 5, 3)
	if ok {
		t.Fatalf("expected rejection past max")
	}
	if cool != 3 {
		t.Fatalf("cooldown=%d want 3", cool)
	}
	if ok, _ := w.Allow(15, 5, 3); !ok {
		t.Fatalf("expected a fresh window at tick 15")
	}
}

func TestWindowDisabled(t *testing.T) {
	var w Window
	for i := 0; i < 100; i++ {
		if ok, _ := w.Allow(1, 0, 0); !ok {
			t.Fatalf("disabled window rejected an event")
		}
	}
}
