package elf

import "fmt"

// ErrorKind identifies the class of structural fault found while parsing.
type ErrorKind int

const (
	// BadMagic: the file does not start with the \x7fELF identifier.
	BadMagic ErrorKind = iota
	// UnsupportedClass: the class or data-encoding byte is not a value
	// this package understands.
	UnsupportedClass
	// Truncated: the file ends before a required structure does.
	Truncated
	// OutOfBounds: a header-declared byte range exceeds the file length.
	OutOfBounds
	// BadStringTable: section names cannot be resolved through the
	// section header string table.
	BadStringTable
)

// String returns a short identifier for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case BadMagic:
		return "bad magic"
	case UnsupportedClass:
		return "unsupported class"
	case Truncated:
		return "truncated"
	case OutOfBounds:
		return "out of bounds"
	case BadStringTable:
		return "bad string table"
	}
	return fmt.Sprintf("unknown error kind (%d)", int(k))
}

// ParseError describes a structural fault at a specific offset of a
// specific file. Path is filled in by the caller that knows it.
type ParseError struct {
	Kind   ErrorKind
	Path   string
	Offset uint64
	Detail string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s at offset 0x%X: %s", e.Path, e.Kind, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%s at offset 0x%X: %s", e.Kind, e.Offset, e.Detail)
}

func parseErr(kind ErrorKind, offset uint64, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
