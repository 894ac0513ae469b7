package verify

import (
	"encoding/binary"
	"os"
	"testing"
)

func writeFile(t *testing.T, pairs []pair) string {
	t.Helper()

	f, err := os.CreateTemp("", "verify-test-*.bin")
	if err != nil {
		t.Fatal(err)
	}
	name := f.Name()
	t.Cleanup(func() { os.Remove(name) })

	var buf [4]byte
	for _, p := range pairs {
		binary.BigEndian.PutUint16(buf[0:2], uint16(p.key))
		binary.BigEndian.PutUint16(buf[2:4], uint16(p.value))
		if _, err := f.Write(buf[:]); err != nil {
			t.Fatal(err)
		}
	}
	f.Close()
	return name
}

func TestCheckAcceptsSortedFile(t *testing.T) {
	path := writeFile(t, []pair{{1, 0}, {1, 0}, {2, 0}, {5, 0}})

	if err := Check(path); err != nil {
		t.Fatalf("expected sorted file to pass, got %v", err)
	}
}

func TestCheckRejectsUnsortedFile(t *testing.T) {
	path := writeFile(t, []pair{{2, 0}, {1, 0}})

	if err := Check(path); err == nil {
		t.Fatal("expected unsorted file to fail")
	}
}

func TestCheckAcceptsEmptyFile(t *testing.T) {
	path := writeFile(t, nil)

	if err := Check(path); err != nil {
		t.Fatalf("expected empty file to pass, got %v", err)
	}
}

func TestCheckPreservedAcceptsPermutation(t *testing.T) {
	before := writeFile(t, []pair{{3, 9}, {1, 8}, {2, 7}})
	after := writeFile(t, []pair{{1, 8}, {2, 7}, {3, 9}})

	if err := CheckPreserved(before, after); err != nil {
		t.Fatalf("expected permutation to pass, got %v", err)
	}
}

func TestCheckPreservedRejectsChangedValue(t *testing.T) {
	before := writeFile(t, []pair{{3, 9}, {1, 8}})
	after := writeFile(t, []pair{{1, 8}, {3, 1}})

	if err := CheckPreserved(before, after); err == nil {
		t.Fatal("expected changed record to be detected")
	}
}

func TestCheckPreservedRejectsDroppedDuplicate(t *testing.T) {
	before := writeFile(t, []pair{{1, 1}, {1, 1}, {2, 2}})
	after := writeFile(t, []pair{{1, 1}, {2, 2}, {2, 2}})

	if err := CheckPreserved(before, after); err == nil {
		t.Fatal("expected duplicate-count mismatch to be detected")
	}
}

func TestCheckPreservedRejectsDifferentLength(t *testing.T) {
	before := writeFile(t, []pair{{1, 1}, {2, 2}})
	after := writeFile(t, []pair{{1, 1}})

	if err := CheckPreserved(before, after); err == nil {
		t.Fatal("expected length mismatch to be detected")
	}
}

func TestEncodeDecodePairRoundTrip(t *testing.T) {
	for _, p := range []pair{{0, 0}, {1, -1}, {-32768, 32767}, {32767, -32768}} {
		if got := decodePair(encodePair(p)); got != p {
			t.Fatalf("round trip mismatch: %v -> %v", p, got)
		}
	}
}
