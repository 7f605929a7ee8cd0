// Package render implements the tiled parallel driver: primary ray
// generation through a Camera, concurrent per-row-band rendering, and
// framebuffer assembly (section 4.5).
package render

import "github.com/arcfire/phongtrace/internal/vec"

// Pixel is one sample of the data model's framebuffer tile entity: a
// colour and a depth.
type Pixel struct {
	Colour vec.Colour
	Depth  float64
}

// Tile is a framebuffer slice covering rows [YStart, YEnd) of the full
// image, each row Width pixels wide. Tiles cover disjoint horizontal bands;
// concatenating every tile in row order reproduces the full image.
type Tile struct {
	YStart, YEnd int
	Width        int
	Pixels       []Pixel // len == (YEnd-YStart)*Width, row-major
}

// At returns the pixel at tile-local row j, column i.
func (t *Tile) At(i, j int) Pixel { return t.Pixels[j*t.Width+i] }

// Set writes the pixel at tile-local row j, column i.
func (t *Tile) Set(i, j int, p Pixel) { t.Pixels[j*t.Width+i] = p }

// Framebuffer is the full joined image: width, height, and a flat pixel
// array built by concatenating tiles in row order.
type Framebuffer struct {
	Width, Height int
	Pixels        []Pixel
}

// NewFramebuffer allocates an all-black, zero-depth framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, Pixels: make([]Pixel, width*height)}
}

// At returns the pixel at (x, y).
func (f *Framebuffer) At(x, y int) Pixel { return f.Pixels[y*f.Width+x] }

// Join copies tile into the framebuffer's rows [tile.YStart, tile.YEnd).
func (f *Framebuffer) Join(tile *Tile) {
	for j := tile.YStart; j < tile.YEnd; j++ {
		copy(f.Pixels[j*f.Width:(j+1)*f.Width], tile.Pixels[(j-tile.YStart)*tile.Width:(j-tile.YStart+1)*tile.Width])
	}
}
