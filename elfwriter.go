package main

import "encoding/binary"

// Minimal static ELF64 executable layout: one ELF header, one program
// header (a single PT_LOAD segment covering the whole file, headers
// included), no section headers at all, for AArch64, with the assembled
// code following the two headers.
const (
	elfHeaderSize     = 64
	programHeaderSize = 56

	elfMachineAArch64 = 0xB7
	elfTypeExec       = 2
	elfVersion        = 1

	// loadAddr is where the image is mapped; arbitrary but conventional
	// for a static Linux executable with no dynamic linker involved.
	loadAddr = 0x400000
)

// ELFWriter renders one Emission's assembled bytes as a standalone
// executable.
type ELFWriter struct {
	bin   *SparseBin
	entry uint64
}

// NewELFWriter returns a writer over bin, entering execution at entry
// (a load-time virtual address; see EntryAddress to compute one from a
// label's translation-unit address).
func NewELFWriter(bin *SparseBin, entry uint64) *ELFWriter {
	return &ELFWriter{bin: bin, entry: entry}
}

// EntryAddress maps a translation-unit address (as DefineLabel/
// ResolveLabel track it, starting at 0) to the load-time virtual
// address the ELF entry point field expects. The segment maps the file
// from its first byte at loadAddr, so unit address 0 lands just past the
// ELF and program headers.
func EntryAddress(unitAddr uint64) uint64 {
	return loadAddr + elfHeaderSize + programHeaderSize + unitAddr
}

// Write renders the full image: header, program header, then codeSize
// bytes of assembled output starting at translation-unit address 0.
func (w *ELFWriter) Write(codeSize uint64) []byte {
	headerSize := uint64(elfHeaderSize + programHeaderSize)
	fileSize := headerSize + codeSize

	out := make([]byte, 0, fileSize)
	out = appendELFHeader(out, w.entry)
	out = appendProgramHeader(out, fileSize)
	for _, run := range w.bin.PageRange(0, codeSize) {
		out = append(out, run.Data...)
	}
	return out
}

func appendELFHeader(out []byte, entry uint64) []byte {
	var ident [16]byte
	ident[0], ident[1], ident[2], ident[3] = 0x7f, 'E', 'L', 'F'
	ident[4] = 2 // ELFCLASS64
	ident[5] = 1 // ELFDATA2LSB
	ident[6] = 1 // EV_CURRENT
	out = append(out, ident[:]...)

	out = appendU16(out, elfTypeExec)
	out = appendU16(out, elfMachineAArch64)
	out = appendU32(out, elfVersion)
	out = appendU64(out, entry)
	out = appendU64(out, elfHeaderSize) // e_phoff: program header right after this header
	out = appendU64(out, 0)             // e_shoff: no section header table
	out = appendU32(out, 0)             // e_flags
	out = appendU16(out, elfHeaderSize)
	out = appendU16(out, programHeaderSize)
	out = appendU16(out, 1) // e_phnum
	out = appendU16(out, 0) // e_shentsize
	out = appendU16(out, 0) // e_shnum
	out = appendU16(out, 0) // e_shstrndx
	return out
}

func appendProgramHeader(out []byte, fileSize uint64) []byte {
	const (
		ptLoad  = 1
		pfExec  = 1
		pfWrite = 2
		pfRead  = 4
	)
	out = appendU32(out, ptLoad)
	out = appendU32(out, pfRead|pfExec)
	out = appendU64(out, 0)        // p_offset: segment starts at the file's first byte
	out = appendU64(out, loadAddr) // p_vaddr
	out = appendU64(out, loadAddr) // p_paddr
	out = appendU64(out, fileSize) // p_filesz
	out = appendU64(out, fileSize) // p_memsz
	out = appendU64(out, 0x1000)   // p_align
	return out
}

func appendU16(out []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(out, b[:]...)
}

func appendU32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func appendU64(out []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(out, b[:]...)
}
