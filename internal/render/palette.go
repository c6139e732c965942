// Package render is the presentation adapter: it maps region labels
// to colors and draws a file's bytes as pixels, one byte per pixel,
// brightness from the byte value and hue from the owning label.
package render

import (
	"image/color"
	"math"
	"sort"
)

// Rainbow returns n fully saturated colors evenly spaced over the hue
// circle, violet to red.
func Rainbow(n int) []color.RGBA {
	colors := make([]color.RGBA, n)
	for i := range colors {
		pos := 0.0
		if n > 1 {
			pos = float64(i) / float64(n-1)
		}
		// Sweep from 270° (violet) down to 0° (red).
		colors[i] = hsvToRGB(270*(1-pos), 1, 1)
	}
	return colors
}

// hsvToRGB converts hue [0,360), saturation and value [0,1] to RGBA.
func hsvToRGB(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

// primeFactors returns the prime factorization of n with repeats.
func primeFactors(n int) []int {
	var factors []int
	for d := 2; d*d <= n; d++ {
		for n%d == 0 {
			factors = append(factors, d)
			n /= d
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// colorStep picks a stride through a list of n colors. The stride
// starts near n/3 so neighboring labels land far apart on the
// spectrum, and carries a prime factor n lacks so the walk does not
// revisit a color early.
func colorStep(n int) int {
	if n <= 2 {
		return 1
	}
	shared := make(map[int]bool)
	for _, f := range primeFactors(n) {
		shared[f] = true
	}
	for step := (n - 1) / 3; step < n; step++ {
		if step < 1 {
			continue
		}
		for _, f := range primeFactors(step) {
			if !shared[f] {
				return step
			}
		}
	}
	return n - 1
}

// Palette maps canonical label names to colors.
type Palette map[string]color.RGBA

// Assign maps each label name to a color. The assignment depends only on
// the sorted label set, so the same label gets the same color in
// every file of an invocation.
func Assign(names []string) Palette {
	uniq := make(map[string]bool, len(names))
	for _, name := range names {
		uniq[name] = true
	}
	sorted := make([]string, 0, len(uniq))
	for name := range uniq {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	n := len(sorted)
	if n == 0 {
		return Palette{}
	}
	colors := Rainbow(n)
	step := colorStep(n)

	assigned := make(Palette, n)
	for i, name := range sorted {
		assigned[name] = colors[(i*step)%n]
	}
	return assigned
}
