// Package elf classifies every byte of an ELF file by the structural
// region that contains it: file header, program header table entries,
// section header table entries, section payloads, or unmapped padding.
package elf

import "encoding/binary"

// e_ident layout.
const (
	eiClass  = 4
	eiData   = 5
	eiNIdent = 16
)

// e_ident[EI_CLASS] and e_ident[EI_DATA] values.
const (
	elfClass32 = 1
	elfClass64 = 2

	elfData2LSB = 1
	elfData2MSB = 2
)

// Section header types the classifier cares about.
const (
	shtNull   = 0
	shtNobits = 8
)

// Program header types shown in reports.
const (
	ptNull    = 0
	ptLoad    = 1
	ptDynamic = 2
	ptInterp  = 3
	ptNote    = 4
	ptPhdr    = 6
	ptTLS     = 7
)

// Class is the ELF file class (address and offset width).
type Class byte

const (
	Class32 Class = elfClass32
	Class64 Class = elfClass64
)

// String returns the conventional class name.
func (c Class) String() string {
	if c == Class64 {
		return "ELF64"
	}
	return "ELF32"
}

// headerSize is the fixed Ehdr size for the class.
func (c Class) headerSize() uint64 {
	if c == Class64 {
		return 64
	}
	return 52
}

// progEntrySize is the minimum Phdr entry size needed to decode the
// fields this package reads.
func (c Class) progEntrySize() uint64 {
	if c == Class64 {
		return 56
	}
	return 32
}

// sectEntrySize is the minimum Shdr entry size needed to decode the
// fields this package reads.
func (c Class) sectEntrySize() uint64 {
	if c == Class64 {
		return 64
	}
	return 40
}

// wordSize is the width of an address or offset field.
func (c Class) wordSize() uint64 {
	if c == Class64 {
		return 8
	}
	return 4
}

// decoder reads unsigned integers out of a byte buffer with the
// endianness and field widths the ELF header declares. Every
// multi-byte read in this package goes through it.
type decoder struct {
	order binary.ByteOrder
	class Class
}

func (d decoder) u16(b []byte, off uint64) uint16 {
	return d.order.Uint16(b[off : off+2])
}

func (d decoder) u32(b []byte, off uint64) uint32 {
	return d.order.Uint32(b[off : off+4])
}

func (d decoder) u64(b []byte, off uint64) uint64 {
	return d.order.Uint64(b[off : off+8])
}

// word reads a class-sized address or offset field.
func (d decoder) word(b []byte, off uint64) uint64 {
	if d.class == Class64 {
		return d.u64(b, off)
	}
	return uint64(d.u32(b, off))
}
