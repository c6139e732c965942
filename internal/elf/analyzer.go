package elf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Info contains the analyzed structural layout of one ELF file.
type Info struct {
	FilePath   string
	FileSize   int64
	Class      string
	Endianness string
	Type       string
	Machine    string
	EntryPoint uint64
	Regions    []Region
	Sections   []SectionInfo
	Programs   []ProgramInfo
	Comment    string
}

// SectionInfo describes one section for reporting.
type SectionInfo struct {
	Name    string
	Type    string
	Offset  uint64
	Size    uint64
	NoBits  bool
	Entropy float64
}

// ProgramInfo describes one program header entry for reporting.
type ProgramInfo struct {
	Type     string
	Offset   uint64
	FileSize uint64
}

// Analyzer classifies an ELF file and aggregates reporting facts.
type Analyzer struct {
	reader *Reader
}

// NewAnalyzer creates a new analyzer for the given reader.
func NewAnalyzer(r *Reader) *Analyzer {
	return &Analyzer{reader: r}
}

// Analyze classifies the file, resolves its regions, and collects
// header, section, and segment facts.
func (a *Analyzer) Analyze() (*Info, error) {
	data := a.reader.Data()

	layout, err := Classify(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) && perr.Path == "" {
			perr.Path = a.reader.FilePath()
		}
		return nil, err
	}

	info := &Info{
		FilePath:   a.reader.FilePath(),
		FileSize:   a.reader.FileSize(),
		Class:      layout.Header.Class.String(),
		Endianness: endiannessName(layout.Header),
		Type:       typeName(layout.Header.Type),
		Machine:    machineName(layout.Header.Machine),
		EntryPoint: layout.Header.Entry,
		Regions:    Resolve(layout, layout.FileLen),
	}

	for _, sect := range layout.Sections {
		si := SectionInfo{
			Name:   sect.Name,
			Type:   sectionTypeName(sect.Type),
			Offset: sect.Offset,
			Size:   sect.Size,
			NoBits: sect.NoBits(),
		}
		if !sect.NoBits() && sect.Size > 0 {
			si.Entropy = CalculateEntropy(data[sect.Offset : sect.Offset+sect.Size])
		}
		info.Sections = append(info.Sections, si)
	}

	for _, prog := range layout.Programs {
		info.Programs = append(info.Programs, ProgramInfo{
			Type:     programTypeName(prog.Type),
			Offset:   prog.Offset,
			FileSize: prog.FileSz,
		})
	}

	info.Comment = commentText(data, layout)
	return info, nil
}

// commentText returns the .comment section contents as caption text.
// A missing .comment section is not an error.
func commentText(data []byte, layout *RawLayout) string {
	for _, sect := range layout.Sections {
		if sect.Name != ".comment" || sect.NoBits() || sect.Size == 0 {
			continue
		}
		raw := bytes.Trim(data[sect.Offset:sect.Offset+sect.Size], "\x00")
		return string(bytes.ReplaceAll(raw, []byte{0}, []byte{' '}))
	}
	return ""
}

func endiannessName(hdr Header) string {
	if hdr.Order == binary.BigEndian {
		return "big endian"
	}
	return "little endian"
}

func typeName(typ uint16) string {
	switch typ {
	case 1:
		return "relocatable object"
	case 2:
		return "executable"
	case 3:
		return "shared object"
	case 4:
		return "core dump"
	}
	return fmt.Sprintf("unknown (0x%X)", typ)
}

func machineName(machine uint16) string {
	switch machine {
	case 3:
		return "x86"
	case 8:
		return "MIPS"
	case 40:
		return "ARM"
	case 62:
		return "x86-64"
	case 183:
		return "AArch64"
	case 243:
		return "RISC-V"
	}
	return fmt.Sprintf("unknown (0x%X)", machine)
}

func sectionTypeName(typ uint32) string {
	switch typ {
	case shtNull:
		return "NULL"
	case 1:
		return "PROGBITS"
	case 2:
		return "SYMTAB"
	case 3:
		return "STRTAB"
	case 4:
		return "RELA"
	case 5:
		return "HASH"
	case 6:
		return "DYNAMIC"
	case 7:
		return "NOTE"
	case shtNobits:
		return "NOBITS"
	case 9:
		return "REL"
	case 11:
		return "DYNSYM"
	case 14:
		return "INIT_ARRAY"
	case 15:
		return "FINI_ARRAY"
	}
	return fmt.Sprintf("0x%X", typ)
}

func programTypeName(typ uint32) string {
	switch typ {
	case ptNull:
		return "NULL"
	case ptLoad:
		return "LOAD"
	case ptDynamic:
		return "DYNAMIC"
	case ptInterp:
		return "INTERP"
	case ptNote:
		return "NOTE"
	case ptPhdr:
		return "PHDR"
	case ptTLS:
		return "TLS"
	}
	return fmt.Sprintf("0x%X", typ)
}
