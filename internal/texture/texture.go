// Package texture loads diffuse/normal/roughness images for textured
// materials and exposes bilinear, wraparound lookups indexed by (u, v).
package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"

	"github.com/arcfire/phongtrace/internal/sceneerr"
	"github.com/arcfire/phongtrace/internal/vec"
)

// Image is a decoded texture, stored as a flat Vec3 pixel array so sampling
// never touches the underlying image.Image interface on the hot path.
type Image struct {
	Width, Height int
	Pixels        []vec.Colour
}

// Load decodes a JPEG or PNG file from disk. maxDim, if positive, downsizes
// the source image (via imaging.Fit) before conversion, keeping very large
// source textures from dominating memory at render time.
func Load(path string, maxDim int) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, sceneerr.NewAssetError(path, "cannot open texture", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, sceneerr.NewAssetError(path, "cannot decode texture", err)
	}

	if maxDim > 0 {
		b := img.Bounds()
		if b.Dx() > maxDim || b.Dy() > maxDim {
			img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]vec.Colour, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*w+x] = vec.New(float64(r)/65535, float64(g)/65535, float64(b)/65535)
		}
	}
	return &Image{Width: w, Height: h, Pixels: pixels}, nil
}

// At returns a bilinearly-filtered, wraparound sample at texture
// coordinate (u, v), where both components may be any real number.
func (img *Image) At(u, v float64) vec.Colour {
	if img == nil || img.Width == 0 || img.Height == 0 {
		return vec.Black()
	}
	fx := wrap(u) * float64(img.Width)
	fy := wrap(v) * float64(img.Height)

	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % img.Width
	y1 := (y0 + 1) % img.Height
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x0 = ((x0 % img.Width) + img.Width) % img.Width
	y0 = ((y0 % img.Height) + img.Height) % img.Height

	c00 := img.pixel(x0, y0)
	c10 := img.pixel(x1, y0)
	c01 := img.pixel(x0, y1)
	c11 := img.pixel(x1, y1)

	top := c00.Scale(1 - tx).Add(c10.Scale(tx))
	bottom := c01.Scale(1 - tx).Add(c11.Scale(tx))
	return top.Scale(1 - ty).Add(bottom.Scale(ty))
}

func (img *Image) pixel(x, y int) vec.Colour {
	return img.Pixels[y*img.Width+x]
}

// wrap folds any real number into [0, 1), implementing the wraparound
// addressing mode used by tiled textures.
func wrap(x float64) float64 {
	f := x - float64(int(x))
	if f < 0 {
		f++
	}
	return f
}

// String identifies the image for log messages, e.g. "256x256".
func (img *Image) String() string {
	if img == nil {
		return "<nil texture>"
	}
	return fmt.Sprintf("%dx%d", img.Width, img.Height)
}
