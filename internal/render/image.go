package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/ZacharyZcR/elfplot/internal/filter"
)

// Legend is one label/color pair shown next to a rendered file.
type Legend struct {
	Name  string
	Color color.RGBA
}

// Width returns the image width for n visible bytes: close to a
// 1:sqrt(2) portrait page, rounded down to a multiple of 8.
func Width(n int) int {
	w := int(math.Sqrt(float64(n))/math.Sqrt2/8) * 8
	if w < 8 {
		return 8
	}
	return w
}

// Compose renders the filtered view of one file. Each visible byte
// becomes one pixel: highlighted regions tint the byte value with
// their label's color, dimmed regions stay grayscale. Stripped
// regions are absent from views, so their bytes produce no pixels.
// A trailing partial row is truncated.
func Compose(data []byte, views []filter.View, colors Palette) (*image.RGBA, []Legend) {
	total := 0
	for _, v := range views {
		total += int(v.Region.Len())
	}

	var legend []Legend
	seen := make(map[string]bool)
	for _, v := range views {
		name := v.Region.Label.Canonical()
		if seen[name] {
			continue
		}
		seen[name] = true
		legend = append(legend, Legend{Name: name, Color: colors[name]})
	}

	if total == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), legend
	}

	w := Width(total)
	h := total / w
	if h < 1 {
		w, h = total, 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	i := 0
	for _, v := range views {
		tint, ok := colors[v.Region.Label.Canonical()]
		if !ok {
			tint = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		for off := v.Region.Start; off < v.Region.End && i < w*h; off++ {
			b := data[off]
			px := color.RGBA{R: b, G: b, B: b, A: 255}
			if v.Highlighted {
				px.R = scale(b, tint.R)
				px.G = scale(b, tint.G)
				px.B = scale(b, tint.B)
			}
			img.SetRGBA(i%w, i/w, px)
			i++
		}
	}
	return img, legend
}

// scale multiplies a byte brightness by a color channel.
func scale(b, channel uint8) uint8 {
	return uint8(uint16(b) * uint16(channel) / 255)
}

// WritePNG encodes img into a file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}
