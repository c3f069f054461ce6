package utils

import (
	"testing"
)

func TestNumber(t *testing.T) {
	s := "S"
	n := uint64(28)

	if DecodeBinaryNumber(s) != n {
		t.Fail()
	}
}

func TestNumberRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 61, 62, 1000, 123456789, 1 << 40} {
		if DecodeBinaryNumber(EncodeBinaryNumber(n)) != n {
			t.Fatalf("round trip failed for %d, encoded %s", n, EncodeBinaryNumber(n))
		}
	}
}
