package ledger

import (
	"errors"
	"math/rand"
	"testing"
)

func TestConsumeIsAtomic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		start := Amounts{Stone: r.Intn(20), Wood: r.Intn(20), Food: r.Intn(20), Gold: r.Intn(20), Workers: r.Intn(5)}
		cost := Amounts{Stone: r.Intn(20), Wood: r.Intn(20), Food: r.Intn(20), Gold: r.Intn(20)}
		s := NewStore(start)
		had := s.Has(cost)
		ok := s.Consume(cost)
		if ok != had {
			t.Fatalf("Consume=%v but Has=%v for %+v cost %+v", ok, had, start, cost)
		}
		got := s.Balance()
		if !ok {
			if got != start {
				t.Fatalf("failed consume mutated store: %+v -> %+v", start, got)
			}
			continue
		}
		want := Amounts{
			Stone:   start.Stone - cost.Stone,
			Wood:    start.Wood - cost.Wood,
			Food:    start.Food - cost.Food,
			Gold:    start.Gold - cost.Gold,
			Workers: start.Workers,
		}
		if got != want {
			t.Fatalf("consume: got %+v want %+v", got, want)
		}
	}
}

func TestHasTreatsMissingFieldsAsZero(t *testing.T) {
	s := NewStore(Amounts{Food: 5})
	if !s.Has(Amounts{Food: 5}) {
		t.Fatalf("expected food 5 affordable")
	}
	if s.Has(Amounts{Food: 5, Gold: 1}) {
		t.Fatalf("expected gold 1 unaffordable")
	}
}

func TestAddIncludesWorkers(t *testing.T) {
	s := NewStore(Amounts{})
	s.Add(Amounts{Workers: 1, Wood: 3})
	s.Add(Amounts{Workers: -1})
	if got := s.Balance(); got != (Amounts{Wood: 3}) {
		t.Fatalf("balance: %+v", got)
	}
}

func TestFromMap(t *testing.T) {
	a, err := FromMap(map[string]int{"food": 60, "wood": 15})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if a != (Amounts{Food: 60, Wood: 15}) {
		t.Fatalf("FromMap: %+v", a)
	}
	if h := a.Half(); h != (Amounts{Food: 30, Wood: 7}) {
		t.Fatalf("Half: %+v", h)
	}
	if _, err := FromMap(map[string]int{"mana": 1}); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}
