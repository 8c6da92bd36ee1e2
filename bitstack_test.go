package main

import "testing"

func TestBitStackPushRoundTrip(t *testing.T) {
	var bs BitStack
	bs.Push(0b1111, 4)
	bs.Push(0b0110, 4)
	if bs.Value() != 0b11110110 {
		t.Fatalf("got %08b, want %08b", bs.Value(), 0b11110110)
	}
}

func TestBitStackFillsExactly32Bits(t *testing.T) {
	var bs BitStack
	bs.Push(0b1111, 4)
	bs.Push(0b101, 3)
	bs.Push(0, 32-7)
	if !bs.AllBitsWritten() {
		t.Fatalf("expected bit stack to be full after 32 bits")
	}
	want := uint32(0b11111010_00000000_00000000_00000000)
	if bs.Value() != want {
		t.Fatalf("got %032b, want %032b", bs.Value(), want)
	}
}

func TestBitStackPushPanicsOnOverflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic pushing past 32 bits")
		}
	}()
	var bs BitStack
	bs.Push(0, 32)
	bs.Push(1, 1)
}

func TestPatchRewritesField(t *testing.T) {
	var bs BitStack
	bs.Push(0b1111, 4) // bits [31:28]
	bs.Push(0, 28)     // fill rest with zero
	word := bs.Value()

	patched := Patch(word, 0b010, 3, 28) // rewrite bits [30:28], bit 31 (=1) untouched
	want := uint32(0b1010_0000_00000000_00000000_00000000)
	if patched != want {
		t.Fatalf("got %032b, want %032b", patched, want)
	}
}

func TestBitStackRoundTripArbitrarySequence(t *testing.T) {
	fields := []struct{ value, width uint32 }{
		{0b1, 1}, {0b01, 2}, {0b111, 3}, {0b0000, 4},
		{0b10101, 5}, {0b11, 2}, {0b1, 1}, {0b10101, 5}, {0b1001, 4}, {0b10, 5},
	}
	var bs BitStack
	for _, f := range fields {
		bs.Push(f.value, uint8(f.width))
	}
	if !bs.AllBitsWritten() {
		t.Fatalf("widths should sum to 32")
	}
	value := bs.Value()
	shift := uint(32)
	for _, f := range fields {
		shift -= uint(f.width)
		got := (value >> shift) & uint32(maskLo(uint8(f.width)))
		if got != f.value&uint32(maskLo(uint8(f.width))) {
			t.Fatalf("field mismatch: got %b want %b", got, f.value)
		}
	}
}
