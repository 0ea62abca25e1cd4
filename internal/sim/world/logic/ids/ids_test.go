package ids

import "testing"

func TestFormatParseRoundTrip(t *testing.T) {
	id := Format(PrefixWorker, 42)
	if id != "W42" {
		t.Fatalf("Format: got %q", id)
	}
	n, ok := ParseUintAfterPrefix(PrefixWorker, id)
	if !ok || n != 42 {
		t.Fatalf("ParseUintAfterPrefix: got %d ok=%v", n, ok)
	}
}

func TestParseUintAfterPrefixRejectsInvalid(t *testing.T) {
	tests := []string{
		"",
		"W",
		"S12",
		"Wx",
	}
	for _, tc := range tests {
		if _, ok := ParseUintAfterPrefix(PrefixWorker, tc); ok {
			t.Fatalf("expected parse failure for %q", tc)
		}
	}
}

func TestLessNumeric(t *testing.T) {
	if !Less("W2", "W10") {
		t.Fatalf("W2 should sort before W10")
	}
	if Less("W10", "W2") {
		t.Fatalf("W10 should not sort before W2")
	}
	if !Less("N5", "W1") {
		t.Fatalf("mixed prefixes should sort lexically")
	}
}
