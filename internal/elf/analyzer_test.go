package elf

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestAnalyzeExecutable(t *testing.T) {
	path := writeFixture(t, buildELF64LE())

	reader, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	info, err := NewAnalyzer(reader).Analyze()
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if info.Class != "ELF64" || info.Endianness != "little endian" {
		t.Errorf("format = %s, %s; want ELF64, little endian", info.Class, info.Endianness)
	}
	if info.Type != "executable" || info.Machine != "x86-64" {
		t.Errorf("kind = %s, %s; want executable, x86-64", info.Type, info.Machine)
	}
	if info.Comment != "GCC: (GNU) 13.2.0" {
		t.Errorf("Comment = %q, want the .comment contents", info.Comment)
	}

	checkPartition(t, info.Regions, uint64(info.FileSize))

	// The scenario file resolves to Ehdr, Phdr, Shdr, both payload
	// sections at their declared lengths, and unmapped gaps.
	lengths := make(map[string]uint64)
	for _, r := range info.Regions {
		lengths[r.Label.Canonical()] += r.Len()
	}
	want := map[string]uint64{
		"Ehdr":      64,
		"Phdr":      56,
		"Shdr":      4 * 64,
		".text":     f64TextSize,
		".comment":  f64CmtSize,
		".shstrtab": f64StrSize,
	}
	for label, size := range want {
		if lengths[label] != size {
			t.Errorf("label %s covers %d bytes, want %d", label, lengths[label], size)
		}
	}
	if lengths["Unmapped"] == 0 {
		t.Error("expected an Unmapped gap between payloads and the Shdr table")
	}
}

func TestAnalyzeMissingCommentIsNotAnError(t *testing.T) {
	reader := NewReader(buildELF32BE(), "fixture32")
	info, err := NewAnalyzer(reader).Analyze()
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if info.Comment != "" {
		t.Errorf("Comment = %q, want empty", info.Comment)
	}
	if info.Endianness != "big endian" {
		t.Errorf("Endianness = %q, want %q", info.Endianness, "big endian")
	}
}

func TestAnalyzeFillsErrorPath(t *testing.T) {
	reader := NewReader([]byte{0x7f, 'E', 'L', 'F'}, "short.bin")
	_, err := NewAnalyzer(reader).Analyze()
	if err == nil {
		t.Fatal("Analyze() succeeded, want error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Analyze() error = %T, want *ParseError", err)
	}
	if perr.Kind != Truncated {
		t.Errorf("error kind = %v, want %v", perr.Kind, Truncated)
	}
	if perr.Path != "short.bin" {
		t.Errorf("error path = %q, want %q", perr.Path, "short.bin")
	}
}
