package imageio

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arcfire/phongtrace/internal/render"
	"github.com/arcfire/phongtrace/internal/vec"
)

func sampleFramebuffer() *render.Framebuffer {
	fb := render.NewFramebuffer(2, 1)
	fb.Pixels[0] = render.Pixel{Colour: vec.New(1, 1, 1), Depth: 4.0}
	fb.Pixels[1] = render.Pixel{Colour: vec.New(0, 0, 0), Depth: 0}
	return fb
}

func TestWriteRGBHeaderAndPixels(t *testing.T) {
	fb := sampleFramebuffer()
	path := filepath.Join(t.TempDir(), "out", "rgb.ppm")

	if err := WriteRGB(fb, path); err != nil {
		t.Fatalf("WriteRGB: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	r := bufio.NewReader(bytes.NewReader(data))
	header, _ := r.ReadString('\n')
	if header != "P6\n" {
		t.Fatalf("header = %q, want P6", header)
	}
	dims, _ := r.ReadString('\n')
	if dims != "2 1\n" {
		t.Fatalf("dims = %q, want \"2 1\"", dims)
	}
	maxval, _ := r.ReadString('\n')
	if maxval != "255\n" {
		t.Fatalf("maxval = %q, want 255", maxval)
	}

	pixels := make([]byte, 6)
	if _, err := r.Read(pixels); err != nil {
		t.Fatalf("reading pixel bytes: %v", err)
	}
	want := []byte{255, 255, 255, 0, 0, 0}
	if !bytes.Equal(pixels, want) {
		t.Errorf("pixels = %v, want %v", pixels, want)
	}
}

func TestWriteDepthNormalisesToMax(t *testing.T) {
	fb := sampleFramebuffer()
	path := filepath.Join(t.TempDir(), "depth.pgm")

	if err := WriteDepth(fb, path); err != nil {
		t.Fatalf("WriteDepth: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Header is "P5\n2 1\n255\n" (11 bytes), followed by 2 depth bytes.
	body := data[len(data)-2:]
	if body[0] != 255 {
		t.Errorf("max-depth pixel = %d, want 255", body[0])
	}
	if body[1] != 0 {
		t.Errorf("zero-depth (miss) pixel = %d, want 0", body[1])
	}
}

func TestWriteDepthAllZeroIsBlack(t *testing.T) {
	fb := render.NewFramebuffer(1, 1)
	path := filepath.Join(t.TempDir(), "depth.pgm")

	if err := WriteDepth(fb, path); err != nil {
		t.Fatalf("WriteDepth: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if data[len(data)-1] != 0 {
		t.Errorf("all-miss depth pixel = %d, want 0", data[len(data)-1])
	}
}
