package ids

import (
	"strconv"
	"strings"
)

// Entity id prefixes. Numbers come from monotonic counters and are never reused,
// so an id that fails to resolve always means the entity is gone.
const (
	PrefixWorker    = "W"
	PrefixStructure = "S"
	PrefixAnimal    = "N"
	PrefixCrop      = "C"
	PrefixNode      = "R"
)

func Format(prefix string, n uint64) string {
	return prefix + strconv.FormatUint(n, 10)
}

func MaxU64(a, b uint64) uint64 {
	if a >= b {
		return a
	}
	return b
}

func ParseUintAfterPrefix(prefix, id string) (uint64, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(id[len(prefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Less orders ids of the same prefix numerically ("W2" < "W10") and falls back to
// lexical order otherwise.
func Less(a, b string) bool {
	pa, pb := splitPrefix(a), splitPrefix(b)
	if pa == pb {
		na, okA := ParseUintAfterPrefix(pa, a)
		nb, okB := ParseUintAfterPrefix(pb, b)
		if okA && okB {
			return na < nb
		}
	}
	return a < b
}

func splitPrefix(id string) string {
	i := strings.IndexAny(id, "0123456789")
	if i < 0 {
		return id
	}
	return id[:i]
}
