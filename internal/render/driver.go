package render

import (
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/arcfire/phongtrace/internal/camera"
	"github.com/arcfire/phongtrace/internal/material"
	"github.com/arcfire/phongtrace/internal/rtlog"
	"github.com/arcfire/phongtrace/internal/vec"
)

// defaultWorkers is the fallback worker count when the caller asks for
// available parallelism but the runtime can't report it (section 4.5).
const defaultWorkers = 4

// Environment is the narrow view of a rendering dispatcher (env.Scene or
// env.PhotonScene) the tiled driver needs.
type Environment interface {
	Raytrace(ray vec.Ray, depth int) material.RenderResult
}

// Options configures a render pass.
type Options struct {
	NumWorkers int // 0 = available parallelism, falling back to defaultWorkers
}

func workerCount(requested int) int {
	if requested > 0 {
		return requested
	}
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return defaultWorkers
}

// Render splits the image into W disjoint horizontal row bands, renders
// each concurrently into its own Tile, and joins them into one Framebuffer
// in row order, exactly as section 4.5 specifies. Worker 0 periodically
// prints progress to standard error.
func Render(cam *camera.Camera, scene Environment, opts Options, logger rtlog.Logger) *Framebuffer {
	if logger == nil {
		logger = rtlog.Nop{}
	}
	w, h := cam.Width, cam.Height
	workers := workerCount(opts.NumWorkers)
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}

	fb := NewFramebuffer(w, h)
	rowsPerWorker := h / workers

	var wg sync.WaitGroup
	tiles := make([]*Tile, workers)

	for i := 0; i < workers; i++ {
		yStart := i * rowsPerWorker
		yEnd := yStart + rowsPerWorker
		if i == workers-1 {
			yEnd = h // last worker absorbs the remainder
		}

		wg.Add(1)
		go func(idx, yStart, yEnd int) {
			defer wg.Done()
			tile := renderBand(cam, scene, yStart, yEnd, idx == 0, logger)
			tiles[idx] = tile
		}(i, yStart, yEnd)
	}
	wg.Wait()

	for _, t := range tiles {
		fb.Join(t)
	}
	return fb
}

func renderBand(cam *camera.Camera, scene Environment, yStart, yEnd int, reportProgress bool, logger rtlog.Logger) *Tile {
	w := cam.Width
	tile := &Tile{YStart: yStart, YEnd: yEnd, Width: w, Pixels: make([]Pixel, (yEnd-yStart)*w)}

	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	totalRows := yEnd - yStart
	lastReport := time.Time{}

	for y := yStart; y < yEnd; y++ {
		for x := 0; x < w; x++ {
			ray := cam.RayFor(x, y)
			result := scene.Raytrace(ray, 0)
			tile.Set(x, y-yStart, Pixel{Colour: result.Colour, Depth: result.Depth})
		}

		if reportProgress && time.Since(lastReport) > 250*time.Millisecond {
			lastReport = time.Now()
			pct := 100 * float64(y-yStart+1) / float64(totalRows)
			if isTTY {
				logger.Printf("rendering: %5.1f%%\r", pct)
			} else {
				logger.Printf("rendering: %5.1f%%", pct)
			}
		}
	}
	if reportProgress {
		logger.Printf("rendering: 100.0%%")
	}
	return tile
}
