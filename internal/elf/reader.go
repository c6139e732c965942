package elf

import (
	"fmt"
	"os"
)

// Reader holds one input file fully loaded into memory. The byte
// slice is never mutated after Open returns.
type Reader struct {
	data     []byte
	filepath string
}

// Open reads the whole file into memory.
func Open(filepath string) (*Reader, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return &Reader{data: data, filepath: filepath}, nil
}

// NewReader wraps an in-memory buffer, for callers that already hold
// the file contents.
func NewReader(data []byte, filepath string) *Reader {
	return &Reader{data: data, filepath: filepath}
}

// Data returns the raw file contents.
func (r *Reader) Data() []byte {
	return r.data
}

// FilePath returns the file path.
func (r *Reader) FilePath() string {
	return r.filepath
}

// FileSize returns the file size in bytes.
func (r *Reader) FileSize() int64 {
	return int64(len(r.data))
}
