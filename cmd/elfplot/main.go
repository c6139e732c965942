// Package main provides the elfplot CLI tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/golang/glog"

	"github.com/ZacharyZcR/elfplot/internal/cli"
	"github.com/ZacharyZcR/elfplot/internal/elf"
	"github.com/ZacharyZcR/elfplot/internal/filter"
	"github.com/ZacharyZcR/elfplot/internal/render"
)

var (
	outDir  = flag.String("out", "", "write one PNG per input file into this directory")
	quiet   = flag.Bool("quiet", false, "suppress the per-file report (useful with -out)")
	verbose = flag.Bool("verbose", false, "show all regions in the report, no truncation")
	noColor = flag.Bool("no-color", false, "disable colored report output")
)

// result is one file's classification outcome. A failed file carries
// its error and never aborts the rest of the batch.
type result struct {
	input filter.Input
	data  []byte
	info  *elf.Info
	views []filter.View
	err   error
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}
	if *noColor {
		color.NoColor = true
	}

	inputs, global, tokenErrs := filter.ParseArgs(flag.Args())
	failed := false
	for _, err := range tokenErrs {
		red := color.New(color.FgRed, color.Bold)
		_, _ = red.Fprintf(os.Stderr, "error: %v\n", err)
		failed = true
	}
	if len(inputs) == 0 {
		printUsage()
		os.Exit(1)
	}

	// One '++' token anywhere turns on stripping everywhere, so this
	// must happen before any per-file filtering.
	filter.PropagateStrip(global, inputs)

	results := make([]result, len(inputs))
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in filter.Input) {
			defer wg.Done()
			results[i] = analyzeFile(in, global)
		}(i, in)
	}
	wg.Wait()

	colors := assignColors(results)

	for _, res := range results {
		if res.err != nil {
			red := color.New(color.FgRed, color.Bold)
			_, _ = red.Fprintf(os.Stderr, "error: %v\n", res.err)
			failed = true
			continue
		}
		if !*quiet {
			reporter := cli.NewReporter(res.info, res.views)
			reporter.SetVerbose(*verbose)
			reporter.Print()
		}
		if *outDir != "" {
			if err := writeImage(res, colors); err != nil {
				red := color.New(color.FgRed, color.Bold)
				_, _ = red.Fprintf(os.Stderr, "error: %s: %v\n", res.input.Path, err)
				failed = true
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

func analyzeFile(in filter.Input, global *filter.Spec) result {
	res := result{input: in}

	glog.V(1).Infof("classifying %s", in.Path)
	reader, err := elf.Open(in.Path)
	if err != nil {
		res.err = fmt.Errorf("%s: %w", in.Path, err)
		return res
	}
	res.data = reader.Data()

	analyzer := elf.NewAnalyzer(reader)
	res.info, err = analyzer.Analyze()
	if err != nil {
		res.err = err
		return res
	}

	res.views = filter.Apply(res.info.Regions, in.SpecOr(global))
	glog.V(1).Infof("%s: %d regions resolved, %d after filtering",
		in.Path, len(res.info.Regions), len(res.views))
	return res
}

// assignColors builds the label-to-color map over the union of all
// files' labels, so a label renders the same color in every file.
func assignColors(results []result) render.Palette {
	var names []string
	for _, res := range results {
		if res.err != nil {
			continue
		}
		for _, v := range res.views {
			names = append(names, v.Region.Label.Canonical())
		}
	}
	return render.Assign(names)
}

func writeImage(res result, colors render.Palette) error {
	img, _ := render.Compose(res.data, res.views, colors)
	if img.Bounds().Empty() {
		glog.V(1).Infof("%s: nothing left to render after filtering", res.input.Path)
		return nil
	}

	name := filepath.Base(res.input.Path) + ".png"
	path := filepath.Join(*outDir, name)
	if err := render.WritePNG(path, img); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	_, _ = green.Printf("wrote %s\n", path)
	return nil
}

func printUsage() {
	cyan := color.New(color.FgCyan, color.Bold)
	_, _ = cyan.Println("\nelfplot - classify and plot the byte layout of ELF files")

	fmt.Println("\nUsage:")
	fmt.Println("  elfplot [flags] [+patterns] <file> [+patterns] <file> ...")
	fmt.Println("\nFilter tokens:")
	fmt.Println("  +p1,p2    highlight regions whose label matches a pattern; others dim")
	fmt.Println("  ++p1,p2   same, but strip non-matching regions from the output entirely")
	fmt.Println("  /re/      a pattern wrapped in slashes is a full-match regular expression")
	fmt.Println("\n  A token before the first file applies to every file without its own")
	fmt.Println("  token; a token right after a file applies to that file only.")
	fmt.Println("\nFlags:")
	fmt.Println("  -out DIR    write one PNG per input file into DIR")
	fmt.Println("  -quiet      suppress the per-file report")
	fmt.Println("  -verbose    show all regions in the report")
	fmt.Println("  -no-color   disable colored output")
	fmt.Println("\nExamples:")
	fmt.Println("  elfplot /bin/ls")
	fmt.Println("  elfplot -out plots /bin/ls /bin/cat")
	fmt.Println("  elfplot +.text,.data /bin/ls")
	fmt.Println("  elfplot '++/^\\..*data.*/' /bin/ls")
	fmt.Println("  elfplot +Ehdr,Phdr,Shdr a.out +.text b.out")
	fmt.Println()
}
