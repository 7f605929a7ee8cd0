// Command phongtrace is the offline physically-based renderer's entry
// point: it parses a scene file, renders it, writes the RGB/depth images,
// and invokes the external image converter, re-rendering whenever the
// scene file changes (section 6).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/arcfire/phongtrace/internal/imageio"
	"github.com/arcfire/phongtrace/internal/parser"
	"github.com/arcfire/phongtrace/internal/render"
	"github.com/arcfire/phongtrace/internal/rtlog"
)

const pollInterval = 50 * time.Millisecond

const version = "0.1.0"

var (
	scenePath = kingpin.Arg("scene", "scene file path").Default("assets/scenes/scene2.txt").String()
	workers   = kingpin.Flag("workers", "render worker count (0 = available parallelism)").Default("0").Int()
)

func main() {
	kingpin.Version(version)
	kingpin.Parse()

	logger := rtlog.NewDefaultLogger()
	os.Exit(run(*scenePath, *workers, logger))
}

// run watches scenePath's modification time and re-renders on every
// change, polling at pollInterval per section 6. It returns exit code 1 only when
// the scene file cannot be stat'ed or the very first render fails;
// otherwise it keeps watching and never returns.
func run(scenePath string, workers int, logger rtlog.Logger) int {
	lastMod, ok := modTime(scenePath)
	if !ok {
		logger.Printf("cannot stat scene file %s", scenePath)
		return 1
	}

	if err := renderOnce(scenePath, workers, logger); err != nil {
		logger.Printf("render failed: %v", err)
		return 1
	}

	for {
		time.Sleep(pollInterval)
		mod, ok := modTime(scenePath)
		if !ok || !mod.After(lastMod) {
			continue
		}
		lastMod = mod
		if err := renderOnce(scenePath, workers, logger); err != nil {
			// Scene errors never crash the watcher (section 7): report and
			// keep waiting for the next change.
			logger.Printf("render failed: %v", err)
		}
	}
}

func modTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// renderOnce parses scenePath, renders it, and writes render/rgb.ppm and
// render/depth.pgm, converting the PPM to PNG on success.
func renderOnce(scenePath string, workers int, logger rtlog.Logger) error {
	doc, err := parser.Load(scenePath, logger)
	if err != nil {
		return err
	}

	fb := render.Render(doc.Camera, doc.Env, render.Options{NumWorkers: workers}, logger)

	const rgbPath = "render/rgb.ppm"
	const depthPath = "render/depth.pgm"

	if err := imageio.WriteRGB(fb, rgbPath); err != nil {
		return fmt.Errorf("writing %s: %w", rgbPath, err)
	}
	if err := imageio.WriteDepth(fb, depthPath); err != nil {
		return fmt.Errorf("writing %s: %w", depthPath, err)
	}

	imageio.Convert(rgbPath, logger)
	return nil
}
