package main

import "testing"

func TestSparseBinZeroPageFallback(t *testing.T) {
	s := NewSparseBin()
	if got := s.GetU8(0x1234); got != 0 {
		t.Fatalf("unwritten byte: got %d, want 0", got)
	}
	a4, ok := NewAligned4(0x2000)
	if !ok {
		t.Fatalf("0x2000 should be 4-aligned")
	}
	if got := s.GetU32(a4); got != 0 {
		t.Fatalf("unwritten word: got %d, want 0", got)
	}
}

func TestSparseBinWriteReadU8(t *testing.T) {
	s := NewSparseBin()
	s.WriteU8(0x10, 0xAB)
	s.WriteU8(0x1010, 0xCD) // different page
	if got := s.GetU8(0x10); got != 0xAB {
		t.Fatalf("got %#x, want 0xAB", got)
	}
	if got := s.GetU8(0x1010); got != 0xCD {
		t.Fatalf("got %#x, want 0xCD", got)
	}
	if got := s.GetU8(0x11); got != 0 {
		t.Fatalf("neighboring byte should read zero, got %#x", got)
	}
}

func TestSparseBinWriteReadU32RoundTrip(t *testing.T) {
	s := NewSparseBin()
	addr, ok := NewAligned4(0x100)
	if !ok {
		t.Fatalf("0x100 should be 4-aligned")
	}
	s.WriteU32(addr, 0xDEADBEEF)
	if got := s.GetU32(addr); got != 0xDEADBEEF {
		t.Fatalf("got %#x, want 0xDEADBEEF", got)
	}
}

func TestSparseBinWriteReadU64RoundTrip(t *testing.T) {
	s := NewSparseBin()
	addr, ok := NewAligned8(0x1000)
	if !ok {
		t.Fatalf("0x1000 should be 8-aligned")
	}
	s.WriteU64(addr, 0x0123456789ABCDEF)
	if got := s.GetU64(addr); got != 0x0123456789ABCDEF {
		t.Fatalf("got %#x, want 0x0123456789ABCDEF", got)
	}
}

func TestSparseBinU32NearPageBoundary(t *testing.T) {
	s := NewSparseBin()
	addr, ok := NewAligned4(pageSize - 4)
	if !ok {
		t.Fatalf("pageSize-4 should be 4-aligned")
	}
	s.WriteU32(addr, 0x11223344)
	if got := s.GetU32(addr); got != 0x11223344 {
		t.Fatalf("got %#x, want 0x11223344", got)
	}
	// the following word lives on the next page entirely
	next, _ := NewAligned4(pageSize)
	s.WriteU32(next, 0x55667788)
	if got := s.GetU32(addr); got != 0x11223344 {
		t.Fatalf("writing next page corrupted previous page: got %#x", got)
	}
}

func TestNewAlignedRejectsMisaligned(t *testing.T) {
	if _, ok := NewAligned4(0x101); ok {
		t.Fatalf("0x101 is not 4-aligned")
	}
	if _, ok := NewAligned8(0x104); ok {
		t.Fatalf("0x104 is not 8-aligned")
	}
}

func TestPageRangeSplitsIntoPagesWithZeroRuns(t *testing.T) {
	s := NewSparseBin()
	s.WriteBytes(0x10, []byte{1, 2, 3, 4})
	runs := s.PageRange(0, pageSize+0x10)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].VAddr != 0 || runs[0].AllZero {
		t.Fatalf("first run should be the written page: %+v", runs[0])
	}
	if runs[0].Data[0x10] != 1 || runs[0].Data[0x13] != 4 {
		t.Fatalf("first run missing written bytes: %v", runs[0].Data[0x10:0x14])
	}
	if !runs[1].AllZero {
		t.Fatalf("second run should be the unwritten page, got %+v", runs[1])
	}
}

func TestPageRangeEmptyWhenEndNotAfterStart(t *testing.T) {
	s := NewSparseBin()
	if runs := s.PageRange(0x10, 0x10); runs != nil {
		t.Fatalf("expected nil for empty range, got %v", runs)
	}
}
