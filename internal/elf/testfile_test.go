package elf

import "encoding/binary"

// Offsets into the 64-bit little-endian fixture, shared by tests that
// patch individual fields.
const (
	f64Len      = 0x2C0
	f64PhOff    = 0x40
	f64TextOff  = 0x80
	f64TextSize = 0x100
	f64CmtOff   = 0x180
	f64CmtSize  = 0x20
	f64StrOff   = 0x1A0
	f64StrSize  = 0x1A
	f64ShOff    = 0x1C0
)

// buildELF64LE builds a minimal but well-formed 64-bit little-endian
// executable: one PT_LOAD segment and sections .text, .comment and
// .shstrtab.
func buildELF64LE() []byte {
	le := binary.LittleEndian
	data := make([]byte, f64Len)

	// Ehdr
	copy(data, []byte{0x7f, 'E', 'L', 'F', 2, 1, 1})
	le.PutUint16(data[16:], 2)  // e_type: EXEC
	le.PutUint16(data[18:], 62) // e_machine: x86-64
	le.PutUint32(data[20:], 1)  // e_version
	le.PutUint64(data[24:], 0x401000)
	le.PutUint64(data[32:], f64PhOff)
	le.PutUint64(data[40:], f64ShOff)
	le.PutUint16(data[52:], 64) // e_ehsize
	le.PutUint16(data[54:], 56) // e_phentsize
	le.PutUint16(data[56:], 1)  // e_phnum
	le.PutUint16(data[58:], 64) // e_shentsize
	le.PutUint16(data[60:], 4)  // e_shnum
	le.PutUint16(data[62:], 3)  // e_shstrndx

	// Phdr 0: PT_LOAD covering everything up to the .comment payload.
	le.PutUint32(data[f64PhOff:], 1)      // p_type: LOAD
	le.PutUint32(data[f64PhOff+4:], 5)    // p_flags: R+X
	le.PutUint64(data[f64PhOff+8:], 0)    // p_offset
	le.PutUint64(data[f64PhOff+16:], 0x400000)
	le.PutUint64(data[f64PhOff+32:], 0x180) // p_filesz
	le.PutUint64(data[f64PhOff+40:], 0x180) // p_memsz

	// .text payload
	for i := 0; i < f64TextSize; i++ {
		data[f64TextOff+i] = 0xC3
	}

	// .comment payload
	copy(data[f64CmtOff:], "GCC: (GNU) 13.2.0")

	// .shstrtab payload
	copy(data[f64StrOff:], "\x00.text\x00.comment\x00.shstrtab\x00")

	// Shdr table: null, .text, .comment, .shstrtab
	shdr64 := func(i int, name, typ uint32, off, size uint64) {
		base := f64ShOff + i*64
		le.PutUint32(data[base:], name)
		le.PutUint32(data[base+4:], typ)
		le.PutUint64(data[base+24:], off)
		le.PutUint64(data[base+32:], size)
	}
	shdr64(1, 1, 1, f64TextOff, f64TextSize) // .text PROGBITS
	shdr64(2, 7, 1, f64CmtOff, f64CmtSize)   // .comment PROGBITS
	shdr64(3, 16, 3, f64StrOff, f64StrSize)  // .shstrtab STRTAB

	return data
}

// buildELF32BE builds a minimal 32-bit big-endian relocatable object
// with sections .data and .shstrtab and no program headers.
func buildELF32BE() []byte {
	be := binary.BigEndian
	data := make([]byte, 0xC8)

	// Ehdr
	copy(data, []byte{0x7f, 'E', 'L', 'F', 1, 2, 1})
	be.PutUint16(data[16:], 1)  // e_type: REL
	be.PutUint16(data[18:], 8)  // e_machine: MIPS
	be.PutUint32(data[20:], 1)  // e_version
	be.PutUint32(data[32:], 0x50) // e_shoff
	be.PutUint16(data[40:], 52) // e_ehsize
	be.PutUint16(data[46:], 40) // e_shentsize
	be.PutUint16(data[48:], 3)  // e_shnum
	be.PutUint16(data[50:], 2)  // e_shstrndx

	// .data payload
	copy(data[0x34:], []byte{1, 2, 3, 4, 5, 6, 7, 8})

	// .shstrtab payload
	copy(data[0x3C:], "\x00.data\x00.shstrtab\x00")

	// Shdr table: null, .data, .shstrtab
	shdr32 := func(i int, name, typ, off, size uint32) {
		base := 0x50 + i*40
		be.PutUint32(data[base:], name)
		be.PutUint32(data[base+4:], typ)
		be.PutUint32(data[base+16:], off)
		be.PutUint32(data[base+20:], size)
	}
	shdr32(1, 1, 1, 0x34, 8)    // .data PROGBITS
	shdr32(2, 7, 3, 0x3C, 0x11) // .shstrtab STRTAB

	return data
}
