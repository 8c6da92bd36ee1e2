package main

import "testing"

func TestELFWriterHeaderFields(t *testing.T) {
	e := NewEmission()
	if err := e.EmitInstruction("RET", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := NewELFWriter(e.Bin, EntryAddress(0))
	img := w.Write(e.PC())

	if len(img) != elfHeaderSize+programHeaderSize+int(e.PC()) {
		t.Fatalf("got image length %d, want %d", len(img), elfHeaderSize+programHeaderSize+int(e.PC()))
	}
	if img[0] != 0x7f || img[1] != 'E' || img[2] != 'L' || img[3] != 'F' {
		t.Fatalf("missing ELF magic: %v", img[:4])
	}
	if img[4] != 2 {
		t.Fatalf("got EI_CLASS %d, want 2 (ELFCLASS64)", img[4])
	}
	machine := uint16(img[18]) | uint16(img[19])<<8
	if machine != elfMachineAArch64 {
		t.Fatalf("got e_machine %#x, want %#x", machine, elfMachineAArch64)
	}
}

func TestELFWriterEmbedsAssembledCode(t *testing.T) {
	e := NewEmission()
	if err := e.EmitInstruction("RET", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := NewELFWriter(e.Bin, EntryAddress(0))
	img := w.Write(e.PC())

	codeStart := elfHeaderSize + programHeaderSize
	word := uint32(img[codeStart]) | uint32(img[codeStart+1])<<8 |
		uint32(img[codeStart+2])<<16 | uint32(img[codeStart+3])<<24
	wantWord := e.Bin.GetU32(mustAligned4(t, 0))
	if word != wantWord {
		t.Fatalf("got embedded word %#08x, want %#08x", word, wantWord)
	}
}

func mustAligned4(t *testing.T, addr uint64) Aligned4 {
	t.Helper()
	a, ok := NewAligned4(addr)
	if !ok {
		t.Fatalf("address %d is not 4-byte aligned", addr)
	}
	return a
}

func TestEntryAddressOffsetsFromLoadBase(t *testing.T) {
	want := uint64(loadAddr + elfHeaderSize + programHeaderSize + 0x20)
	if got := EntryAddress(0x20); got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}
