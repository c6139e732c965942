// Package cli provides command-line interface utilities.
package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/ZacharyZcR/elfplot/internal/elf"
	"github.com/ZacharyZcR/elfplot/internal/filter"
)

// Reporter formats and prints one file's ELF layout analysis.
type Reporter struct {
	info    *elf.Info
	views   []filter.View
	verbose bool
}

// NewReporter creates a new reporter for the given analysis and its
// filtered region views.
func NewReporter(info *elf.Info, views []filter.View) *Reporter {
	return &Reporter{info: info, views: views}
}

// SetVerbose enables verbose mode (show all regions, no truncation).
func (r *Reporter) SetVerbose(verbose bool) {
	r.verbose = verbose
}

// Print outputs the complete layout report.
func (r *Reporter) Print() {
	r.printHeader()
	r.printBasicInfo()
	r.printRegions()
	r.printSections()
	r.printPrograms()
}

func (r *Reporter) printHeader() {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println("\n╔════════════════════════════════════════╗")
	cyan.Println("║          elfplot layout report         ║")
	cyan.Println("╚════════════════════════════════════════╝")
}

func (r *Reporter) printBasicInfo() {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Println("\n[File]")

	fmt.Printf("  %-12s: %s\n", "Path", r.info.FilePath)
	fmt.Printf("  %-12s: %s\n", "Size", formatSize(r.info.FileSize))
	fmt.Printf("  %-12s: %s, %s\n", "Format", r.info.Class, r.info.Endianness)
	fmt.Printf("  %-12s: %s, %s\n", "Kind", r.info.Type, r.info.Machine)
	fmt.Printf("  %-12s: 0x%X\n", "Entry point", r.info.EntryPoint)
	if r.info.Comment != "" {
		fmt.Printf("  %-12s: %s\n", "Comment", r.info.Comment)
	}
}

func (r *Reporter) printRegions() {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Printf("\n[Regions] (%d after filtering)\n", len(r.views))

	if len(r.views) == 0 {
		fmt.Println("  no regions left after filtering")
		return
	}

	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("  %-18s %-12s %-12s %-12s %s\n", "Label", "Start", "End", "Size", "State")
	fmt.Println(strings.Repeat("-", 72))

	maxDisplay := 40
	if r.verbose {
		maxDisplay = len(r.views)
	}

	for i, v := range r.views {
		if i >= maxDisplay {
			gray := color.New(color.FgHiBlack)
			gray.Printf("  ... (%d more regions, use -verbose to show all)\n", len(r.views)-maxDisplay)
			break
		}
		labelColor := color.New(color.FgGreen)
		state := "highlighted"
		if !v.Highlighted {
			labelColor = color.New(color.FgHiBlack)
			state = "dimmed"
		}
		if v.Region.Label.Kind == elf.KindUnmapped {
			labelColor = color.New(color.FgHiBlack)
		}
		labelColor.Printf("  %-18s", v.Region.Label.Canonical())
		fmt.Printf(" 0x%08X   0x%08X   %-12s %s\n",
			v.Region.Start, v.Region.End, formatSize(int64(v.Region.Len())), state)
	}
	fmt.Println(strings.Repeat("-", 72))
}

func (r *Reporter) printSections() {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Printf("\n[Sections] (%d total)\n", len(r.info.Sections))

	if len(r.info.Sections) == 0 {
		fmt.Println("  no sections found")
		return
	}

	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("  %-20s %-12s %-12s %-12s %s\n", "Name", "Type", "Offset", "Size", "Entropy")
	fmt.Println(strings.Repeat("-", 72))

	for _, s := range r.info.Sections {
		name := s.Name
		if name == "" {
			name = "(null)"
		}
		fmt.Printf("  %-20s %-12s 0x%08X   %-12s ", name, s.Type, s.Offset, formatSize(int64(s.Size)))
		switch {
		case s.NoBits:
			gray := color.New(color.FgHiBlack)
			gray.Print("no file bytes")
		case s.Entropy > 7.0:
			red := color.New(color.FgRed, color.Bold)
			red.Printf("%.2f", s.Entropy)
		default:
			fmt.Printf("%.2f", s.Entropy)
		}
		fmt.Println()
	}
	fmt.Println(strings.Repeat("-", 72))
}

func (r *Reporter) printPrograms() {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Printf("\n[Program headers] (%d total)\n", len(r.info.Programs))

	if len(r.info.Programs) == 0 {
		fmt.Println("  no program headers found")
		fmt.Println()
		return
	}

	for i, p := range r.info.Programs {
		green := color.New(color.FgGreen)
		green.Printf("  %3d. %-8s", i+1, p.Type)
		fmt.Printf(" file range [0x%08X, 0x%08X)\n", p.Offset, p.Offset+p.FileSize)
	}
	fmt.Println()
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
