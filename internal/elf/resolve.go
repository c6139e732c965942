package elf

import "sort"

// Region is one resolved byte range owned by exactly one label.
type Region struct {
	Start uint64
	End   uint64
	Label Label
}

// Len returns the region's byte length.
func (r Region) Len() uint64 { return r.End - r.Start }

// Resolve flattens the raw layout into a total partition of
// [0, fileLen): regions come back sorted, disjoint, and contiguous,
// with gaps labeled Unmapped. Overlaps go to the highest-priority
// label; among equals the range starting earlier wins, then the one
// with the lower table index. Zero-length ranges contribute nothing.
func Resolve(layout *RawLayout, fileLen uint64) []Region {
	if fileLen == 0 {
		return nil
	}

	var ranges []Range
	for _, r := range layout.Ranges {
		if r.End > r.Start {
			ranges = append(ranges, r)
		}
	}

	// Elementary intervals between consecutive range boundaries. Every
	// byte inside one interval has the same set of covering ranges, so
	// one winner per interval suffices.
	cuts := make([]uint64, 0, 2*len(ranges)+2)
	cuts = append(cuts, 0, fileLen)
	for _, r := range ranges {
		if r.Start < fileLen {
			cuts = append(cuts, r.Start)
		}
		if r.End < fileLen {
			cuts = append(cuts, r.End)
		}
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })
	cuts = dedupe(cuts)

	var regions []Region
	for i := 0; i+1 < len(cuts); i++ {
		start, end := cuts[i], cuts[i+1]
		label := winner(ranges, start)
		if m := len(regions); m > 0 && regions[m-1].Label == label {
			regions[m-1].End = end
			continue
		}
		regions = append(regions, Region{Start: start, End: end, Label: label})
	}
	return regions
}

// winner picks the label owning offset off.
func winner(ranges []Range, off uint64) Label {
	best := -1
	for i, r := range ranges {
		if off < r.Start || off >= r.End {
			continue
		}
		if best < 0 || covers(r, ranges[best]) {
			best = i
		}
	}
	if best < 0 {
		return Label{Kind: KindUnmapped}
	}
	return ranges[best].Label
}

// covers reports whether range a beats range b for the same offset.
func covers(a, b Range) bool {
	if a.Label.Kind != b.Label.Kind {
		return a.Label.Kind > b.Label.Kind
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.Index < b.Index
}

func dedupe(sorted []uint64) []uint64 {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
