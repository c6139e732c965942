package elf

import (
	"bytes"
	"encoding/binary"
)

// Kind is a structural region label kind. Higher values take priority
// when ranges overlap: headers describing the file's shape win over
// the payload bytes they describe.
type Kind int

const (
	KindUnmapped Kind = iota
	KindSection
	KindSectionHeader
	KindProgramHeader
	KindFileHeader
)

// String returns the canonical label name for non-section kinds.
func (k Kind) String() string {
	switch k {
	case KindFileHeader:
		return "Ehdr"
	case KindProgramHeader:
		return "Phdr"
	case KindSectionHeader:
		return "Shdr"
	case KindSection:
		return "Section"
	}
	return "Unmapped"
}

// Label names one structural region. Name is set only for sections.
type Label struct {
	Kind Kind
	Name string
}

// Canonical returns the name filter patterns match against: "Ehdr",
// "Phdr", "Shdr", "Unmapped", or the section's own name.
func (l Label) Canonical() string {
	if l.Kind == KindSection {
		return l.Name
	}
	return l.Kind.String()
}

// Range is a half-open [Start, End) byte range carrying a label and
// the index of the header-table entry that produced it.
type Range struct {
	Start uint64
	End   uint64
	Label Label
	Index int
}

// Header is the parsed ELF file header.
type Header struct {
	Class     Class
	Order     binary.ByteOrder
	Type      uint16
	Machine   uint16
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrNdx  uint16
}

// ProgEntry is one parsed program header table row.
type ProgEntry struct {
	Type   uint32
	Flags  uint32
	Offset uint64
	FileSz uint64
}

// SectionEntry is one parsed section header table row. Name is
// resolved through the section header string table after the walk.
type SectionEntry struct {
	Name    string
	NameOff uint32
	Type    uint32
	Offset  uint64
	Size    uint64
}

// NoBits reports whether the section occupies no file bytes.
func (s *SectionEntry) NoBits() bool { return s.Type == shtNobits }

// RawLayout is the unresolved classification: every labeled range the
// headers declare, overlaps and all.
type RawLayout struct {
	Header   Header
	Programs []ProgEntry
	Sections []SectionEntry
	Ranges   []Range
	FileLen  uint64
}

// Classify parses the ELF container structure of data and returns the
// labeled byte ranges it declares. Ranges may overlap; Resolve turns
// them into an exclusive partition. Errors are *ParseError values.
func Classify(data []byte) (*RawLayout, error) {
	n := uint64(len(data))
	if n < 4 {
		return nil, parseErr(Truncated, 0, "file length %d is shorter than the ELF identifier", n)
	}
	if !bytes.Equal(data[:4], []byte{0x7f, 'E', 'L', 'F'}) {
		return nil, parseErr(BadMagic, 0, "got % X, want 7F 45 4C 46", data[:4])
	}
	if n < eiNIdent {
		return nil, parseErr(Truncated, 0, "file length %d is shorter than e_ident (%d bytes)", n, eiNIdent)
	}

	var class Class
	switch data[eiClass] {
	case elfClass32:
		class = Class32
	case elfClass64:
		class = Class64
	default:
		return nil, parseErr(UnsupportedClass, eiClass, "unknown class byte 0x%02X", data[eiClass])
	}

	var order binary.ByteOrder
	switch data[eiData] {
	case elfData2LSB:
		order = binary.LittleEndian
	case elfData2MSB:
		order = binary.BigEndian
	default:
		return nil, parseErr(UnsupportedClass, eiData, "unknown data encoding byte 0x%02X", data[eiData])
	}

	if n < class.headerSize() {
		return nil, parseErr(Truncated, 0, "file length %d is shorter than the %s header (%d bytes)",
			n, class, class.headerSize())
	}

	d := decoder{order: order, class: class}
	hdr := parseHeader(d, data)
	layout := &RawLayout{Header: hdr, FileLen: n}

	ehSize := uint64(hdr.EhSize)
	if ehSize > n {
		return nil, parseErr(OutOfBounds, 0, "declared header size %d exceeds file length %d", ehSize, n)
	}
	layout.Ranges = append(layout.Ranges, Range{
		Start: 0,
		End:   ehSize,
		Label: Label{Kind: KindFileHeader},
	})

	if err := classifyPrograms(d, data, layout); err != nil {
		return nil, err
	}
	if err := classifySections(d, data, layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// parseHeader decodes the Ehdr fields. The caller has verified the
// buffer covers the class's header size.
func parseHeader(d decoder, data []byte) Header {
	hdr := Header{
		Class:   d.class,
		Order:   d.order,
		Type:    d.u16(data, 16),
		Machine: d.u16(data, 18),
	}

	off := uint64(24)
	hdr.Entry = d.word(data, off)
	off += d.class.wordSize()
	hdr.PhOff = d.word(data, off)
	off += d.class.wordSize()
	hdr.ShOff = d.word(data, off)
	off += d.class.wordSize()
	off += 4 // e_flags

	hdr.EhSize = d.u16(data, off)
	hdr.PhEntSize = d.u16(data, off+2)
	hdr.PhNum = d.u16(data, off+4)
	hdr.ShEntSize = d.u16(data, off+6)
	hdr.ShNum = d.u16(data, off+8)
	hdr.ShStrNdx = d.u16(data, off+10)
	return hdr
}

// checkTable validates a header table's declared geometry against the
// file length and returns the per-entry size.
func checkTable(what string, off, count, entSize, minEntSize, fileLen uint64) (uint64, error) {
	if entSize < minEntSize {
		return 0, parseErr(Truncated, off, "%s entry size %d is smaller than the required structure (%d bytes)",
			what, entSize, minEntSize)
	}
	if off > fileLen {
		return 0, parseErr(OutOfBounds, off, "%s table offset 0x%X exceeds file length %d", what, off, fileLen)
	}
	if count*entSize > fileLen-off {
		return 0, parseErr(OutOfBounds, off, "%s table (%d entries of %d bytes at 0x%X) exceeds file length %d",
			what, count, entSize, off, fileLen)
	}
	return entSize, nil
}

func classifyPrograms(d decoder, data []byte, layout *RawLayout) error {
	hdr := layout.Header
	if hdr.PhOff == 0 || hdr.PhNum == 0 {
		return nil
	}

	entSize, err := checkTable("program header", hdr.PhOff, uint64(hdr.PhNum),
		uint64(hdr.PhEntSize), d.class.progEntrySize(), layout.FileLen)
	if err != nil {
		return err
	}

	for i := uint64(0); i < uint64(hdr.PhNum); i++ {
		base := hdr.PhOff + i*entSize
		row := data[base : base+entSize]

		var prog ProgEntry
		prog.Type = d.u32(row, 0)
		if d.class == Class64 {
			prog.Flags = d.u32(row, 4)
			prog.Offset = d.u64(row, 8)
			prog.FileSz = d.u64(row, 32)
		} else {
			prog.Offset = uint64(d.u32(row, 4))
			prog.FileSz = uint64(d.u32(row, 16))
			prog.Flags = d.u32(row, 24)
		}

		if prog.FileSz > 0 {
			if prog.Offset > layout.FileLen || prog.FileSz > layout.FileLen-prog.Offset {
				return parseErr(OutOfBounds, base,
					"segment %d file range [0x%X, 0x%X) exceeds file length %d",
					i, prog.Offset, prog.Offset+prog.FileSz, layout.FileLen)
			}
		}

		layout.Programs = append(layout.Programs, prog)
		layout.Ranges = append(layout.Ranges, Range{
			Start: base,
			End:   base + entSize,
			Label: Label{Kind: KindProgramHeader},
			Index: int(i),
		})
	}
	return nil
}

func classifySections(d decoder, data []byte, layout *RawLayout) error {
	hdr := layout.Header
	if hdr.ShOff == 0 || hdr.ShNum == 0 {
		return nil
	}

	entSize, err := checkTable("section header", hdr.ShOff, uint64(hdr.ShNum),
		uint64(hdr.ShEntSize), d.class.sectEntrySize(), layout.FileLen)
	if err != nil {
		return err
	}

	for i := uint64(0); i < uint64(hdr.ShNum); i++ {
		base := hdr.ShOff + i*entSize
		row := data[base : base+entSize]

		var sect SectionEntry
		sect.NameOff = d.u32(row, 0)
		sect.Type = d.u32(row, 4)
		if d.class == Class64 {
			sect.Offset = d.u64(row, 24)
			sect.Size = d.u64(row, 32)
		} else {
			sect.Offset = uint64(d.u32(row, 16))
			sect.Size = uint64(d.u32(row, 20))
		}

		// NULL-typed sections get no payload range, but a declared
		// range is validated no matter the type: later passes slice it.
		if !sect.NoBits() && sect.Size > 0 {
			if sect.Offset > layout.FileLen || sect.Size > layout.FileLen-sect.Offset {
				return parseErr(OutOfBounds, base,
					"section %d payload range [0x%X, 0x%X) exceeds file length %d",
					i, sect.Offset, sect.Offset+sect.Size, layout.FileLen)
			}
		}

		layout.Sections = append(layout.Sections, sect)
		layout.Ranges = append(layout.Ranges, Range{
			Start: base,
			End:   base + entSize,
			Label: Label{Kind: KindSectionHeader},
			Index: int(i),
		})
	}

	if err := resolveNames(data, layout); err != nil {
		return err
	}

	for i := range layout.Sections {
		sect := &layout.Sections[i]
		if sect.Type == shtNull || sect.NoBits() || sect.Size == 0 {
			continue
		}
		layout.Ranges = append(layout.Ranges, Range{
			Start: sect.Offset,
			End:   sect.Offset + sect.Size,
			Label: Label{Kind: KindSection, Name: sect.Name},
			Index: i,
		})
	}
	return nil
}

// resolveNames looks up every section's name in the section header
// string table. The name index is a back-reference into the already
// parsed section list, not a stored pointer.
func resolveNames(data []byte, layout *RawLayout) error {
	hdr := layout.Header
	ndx := int(hdr.ShStrNdx)
	if ndx == 0 || ndx >= len(layout.Sections) {
		return parseErr(BadStringTable, uint64(ndx),
			"shstrndx %d is not a valid section index (have %d sections)", ndx, len(layout.Sections))
	}

	strtab := &layout.Sections[ndx]
	if strtab.Type == shtNull {
		return parseErr(BadStringTable, strtab.Offset,
			"string table section %d has type NULL", ndx)
	}
	if strtab.NoBits() || strtab.Size == 0 {
		return parseErr(BadStringTable, strtab.Offset,
			"string table section %d occupies no file bytes", ndx)
	}
	table := data[strtab.Offset : strtab.Offset+strtab.Size]

	for i := range layout.Sections {
		sect := &layout.Sections[i]
		if i == 0 && sect.Type == shtNull {
			continue
		}
		off := uint64(sect.NameOff)
		if off >= strtab.Size {
			return parseErr(BadStringTable, strtab.Offset+off,
				"section %d name offset %d exceeds string table size %d", i, off, strtab.Size)
		}
		end := bytes.IndexByte(table[off:], 0)
		if end < 0 {
			return parseErr(BadStringTable, strtab.Offset+off,
				"section %d name at offset %d is not NUL-terminated", i, off)
		}
		sect.Name = string(table[off : off+uint64(end)])
	}
	return nil
}
