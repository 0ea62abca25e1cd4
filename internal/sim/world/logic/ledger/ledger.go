package ledger

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownResource = errors.New("unknown resource")

// Amounts is used both as a balance and as a cost/delta. Zero fields cost nothing.
type Amounts struct {
	Stone   int `json:"stone,omitempty"`
	Wood    int `json:"wood,omitempty"`
	Food    int `json:"food,omitempty"`
	Gold    int `json:"gold,omitempty"`
	Workers int `json:"workers,omitempty"`
}

// FromMap converts a catalog cost map ({"food":10,"wood":5}) into Amounts.
func FromMap(m map[string]int) (Amounts, error) {
	var a Amounts
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := m[k]
		switch k {
		case "stone":
			a.Stone = v
		case "wood":
			a.Wood = v
		case "food":
			a.Food = v
		case "gold":
			a.Gold = v
		case "workers":
			a.Workers = v
		default:
			return Amounts{}, fmt.Errorf("%w: %q", ErrUnknownResource, k)
		}
	}
	return a, nil
}

func (a Amounts) Map() map[string]int {
	out := map[string]int{}
	put := func(k string, v int) {
		if v != 0 {
			out[k] = v
		}
	}
	put("stone", a.Stone)
	put("wood", a.Wood)
	put("food", a.Food)
	put("gold", a.Gold)
	put("workers", a.Workers)
	return out
}

// Half floors every field; used for demolition refunds.
func (a Amounts) Half() Amounts {
	return Amounts{
		Stone:   a.Stone / 2,
		Wood:    a.Wood / 2,
		Food:    a.Food / 2,
		Gold:    a.Gold / 2,
		Workers: a.Workers / 2,
	}
}

func (a Amounts) IsZero() bool { return a == Amounts{} }

// Store is the mutable resource ledger. Balances never go negative through
// Consume; Add is unbounded.
type Store struct {
	bal Amounts
}

func NewStore(initial Amounts) *Store {
	return &Store{bal: initial}
}

func (s *Store) Balance() Amounts { return s.bal }

func (s *Store) Has(cost Amounts) bool {
	return s.bal.Stone >= cost.Stone &&
		s.bal.Wood >= cost.Wood &&
		s.bal.Food >= cost.Food &&
		s.bal.Gold >= cost.Gold &&
		s.bal.Workers >= cost.Workers
}

// Consume deducts every field of cost, or nothing at all.
func (s *Store) Consume(cost Amounts) bool {
	if !s.Has(cost) {
		return false
	}
	s.bal.Stone -= cost.Stone
	s.bal.Wood -= cost.Wood
	s.bal.Food -= cost.Food
	s.bal.Gold -= cost.Gold
	s.bal.Workers -= cost.Workers
	return true
}

func (s *Store) Add(delta Amounts) {
	s.bal.Stone += delta.Stone
	s.bal.Wood += delta.Wood
	s.bal.Food += delta.Food
	s.bal.Gold += delta.Gold
	s.bal.Workers += delta.Workers
}
