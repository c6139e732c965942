package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacharyZcR/elfplot/internal/elf"
	"github.com/ZacharyZcR/elfplot/internal/filter"
)

func TestWidth(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"tiny input clamps to 8", 10, 8},
		{"10000 bytes", 10000, 64},
		{"one MiB", 1 << 20, 720},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Width(tt.n)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, got%8, "width must stay a multiple of 8")
		})
	}
}

func TestColorStep(t *testing.T) {
	for n := 1; n <= 64; n++ {
		step := colorStep(n)
		require.GreaterOrEqual(t, step, 1, "n=%d", n)
		require.Less(t, step, n+1, "n=%d", n)
	}
	// All indexes 0..n-1 must be visited before any repeats when the
	// step shares no prime factor with n.
	n := 12
	step := colorStep(n)
	seen := map[int]bool{}
	for i := 0; i < n; i++ {
		seen[(i*step)%n] = true
	}
	assert.GreaterOrEqual(t, len(seen), n/2, "stride revisits colors far too early")
}

func TestAssignStableAcrossOrdering(t *testing.T) {
	a := Assign([]string{"Ehdr", ".text", ".data", "Unmapped"})
	b := Assign([]string{".data", "Unmapped", ".text", "Ehdr", ".text"})
	assert.Equal(t, a, b, "color assignment must depend only on the label set")
}

func TestComposePixelCount(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}
	views := []filter.View{
		{Region: elf.Region{Start: 0, End: 64, Label: elf.Label{Kind: elf.KindFileHeader}}, Highlighted: true},
		{Region: elf.Region{Start: 64, End: 4096, Label: elf.Label{Kind: elf.KindSection, Name: ".text"}}, Highlighted: false},
	}
	colors := Assign([]string{"Ehdr", ".text"})

	img, legend := Compose(data, views, colors)
	require.NotNil(t, img)

	bounds := img.Bounds()
	assert.Equal(t, Width(4096), bounds.Dx())
	assert.Equal(t, 4096/Width(4096), bounds.Dy())
	require.Len(t, legend, 2)
	assert.Equal(t, "Ehdr", legend[0].Name)
	assert.Equal(t, ".text", legend[1].Name)

	// A dimmed region renders grayscale.
	px := img.RGBAAt(10, bounds.Dy()-1)
	assert.Equal(t, px.R, px.G)
	assert.Equal(t, px.G, px.B)
}

func TestComposeStrippedBytesAbsent(t *testing.T) {
	data := make([]byte, 1024)
	// Only .text survived stripping: the image holds exactly its bytes.
	views := []filter.View{
		{Region: elf.Region{Start: 256, End: 512, Label: elf.Label{Kind: elf.KindSection, Name: ".text"}}, Highlighted: true},
	}
	img, _ := Compose(data, views, Assign([]string{".text"}))
	require.NotNil(t, img)

	bounds := img.Bounds()
	assert.LessOrEqual(t, bounds.Dx()*bounds.Dy(), 256)
	assert.Greater(t, bounds.Dx()*bounds.Dy(), 0)
}

func TestComposeEmptyViews(t *testing.T) {
	img, legend := Compose(nil, nil, Palette{})
	require.NotNil(t, img)
	assert.True(t, img.Bounds().Empty())
	assert.Empty(t, legend)
}
