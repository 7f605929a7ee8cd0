// Package imageio writes the rendered framebuffer to disk as binary
// PPM/PGM files (section 6) and invokes the external image converter to
// produce a PNG alongside the PPM.
package imageio

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arcfire/phongtrace/internal/render"
	"github.com/arcfire/phongtrace/internal/rtlog"
)

// WriteRGB writes fb's colour channel to path as a binary (P6) PPM,
// 8 bits per channel, clamped to [0,1] only here (section 3's Colour
// invariant: channels are clamped at file write, not before).
func WriteRGB(fb *render.Framebuffer, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("imageio: creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P6\n%d %d\n255\n", fb.Width, fb.Height)
	for _, p := range fb.Pixels {
		r, g, b := p.Colour.ToSRGB8()
		w.Write([]byte{r, g, b})
	}
	return w.Flush()
}

// WriteDepth writes fb's depth channel to path as a binary (P5) PGM,
// normalised from the framebuffer's own [0, max] range to 8-bit [0,255].
// A miss (depth 0) is already the darkest value under this normalisation.
func WriteDepth(fb *render.Framebuffer, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("imageio: creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: creating %s: %w", path, err)
	}
	defer f.Close()

	maxDepth := 0.0
	for _, p := range fb.Pixels {
		if p.Depth > maxDepth {
			maxDepth = p.Depth
		}
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P5\n%d %d\n255\n", fb.Width, fb.Height)
	buf := make([]byte, len(fb.Pixels))
	for i, p := range fb.Pixels {
		if maxDepth <= 0 {
			buf[i] = 0
			continue
		}
		v := p.Depth / maxDepth
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		buf[i] = byte(v*255 + 0.5)
	}
	w.Write(buf)
	return w.Flush()
}

// converterBin is the external image converter invoked after a successful
// render. It is a package variable so tests can point it at a stub binary.
var converterBin = "ffmpeg"

// Convert invokes the external image converter on rgbPath, producing a PNG
// alongside it (section 6). Its absence is reported but not fatal: the
// caller logs the failure and continues.
func Convert(rgbPath string, logger rtlog.Logger) {
	if logger == nil {
		logger = rtlog.Nop{}
	}
	pngPath := rgbPath[:len(rgbPath)-len(filepath.Ext(rgbPath))] + ".png"
	cmd := exec.Command(converterBin, "-y", "-hide_banner", "-loglevel", "warning", "-i", rgbPath, pngPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Printf("image converter unavailable or failed (%v): %s", err, out)
	}
}
