package digestcodec

import (
	"crypto/sha256"
	"math"
	"testing"
)

func sum(fn func(w Writer, tmp *[8]byte)) [32]byte {
	h := sha256.New()
	var tmp [8]byte
	fn(h, &tmp)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestWriteStringIsLengthPrefixed(t *testing.T) {
	a := sum(func(w Writer, tmp *[8]byte) { WriteString(w, tmp, "ab"); WriteString(w, tmp, "c") })
	b := sum(func(w Writer, tmp *[8]byte) { WriteString(w, tmp, "a"); WriteString(w, tmp, "bc") })
	if a == b {
		t.Fatalf("expected distinct digests for differently split strings")
	}
}

func TestWriteSortedNonZeroIntMapIgnoresZerosAndOrder(t *testing.T) {
	a := sum(func(w Writer, tmp *[8]byte) {
		WriteSortedNonZeroIntMap(w, tmp, map[string]int{"food": 10, "wood": 5, "gold": 0})
	})
	b := sum(func(w Writer, tmp *[8]byte) {
		WriteSortedNonZeroIntMap(w, tmp, map[string]int{"wood": 5, "food": 10})
	})
	if a != b {
		t.Fatalf("expected equal digests")
	}
}

func TestWriteF64DistinguishesSignedZero(t *testing.T) {
	negZero := math.Copysign(0, -1)
	a := sum(func(w Writer, tmp *[8]byte) { WriteF64(w, tmp, 0) })
	b := sum(func(w Writer, tmp *[8]byte) { WriteF64(w, tmp, negZero) })
	if a == b {
		t.Fatalf("expected distinct digests for +0 and -0")
	}
}
