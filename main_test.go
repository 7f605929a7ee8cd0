package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/arcfire/phongtrace/internal/rtlog"
)

func TestRenderOnceWritesImages(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.txt")
	writeScene(t, scenePath, emptySceneSrc(16, 16))

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if err := renderOnce(scenePath, 1, rtlog.Nop{}); err != nil {
		t.Fatalf("renderOnce: %v", err)
	}

	for _, name := range []string{"render/rgb.ppm", "render/depth.pgm"} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestRenderOnceReportsParseError(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.txt")
	writeScene(t, scenePath, "object Unknown\n  foo 1\n")

	if err := renderOnce(scenePath, 1, rtlog.Nop{}); err == nil {
		t.Fatal("expected a parse error for an unknown object class")
	}
}

func TestRunReportsMissingSceneFile(t *testing.T) {
	if code := run(filepath.Join(t.TempDir(), "missing.txt"), 1, rtlog.Nop{}); code == 0 {
		t.Fatal("expected a non-zero exit code for a missing scene file")
	}
}

func TestModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.txt")
	writeScene(t, path, emptySceneSrc(4, 4))

	mod, ok := modTime(path)
	if !ok {
		t.Fatal("expected modTime to succeed for an existing file")
	}
	if time.Since(mod) > time.Minute {
		t.Errorf("unexpected modTime: %v", mod)
	}

	if _, ok := modTime(filepath.Join(dir, "missing.txt")); ok {
		t.Error("expected modTime to fail for a missing file")
	}
}

func writeScene(t *testing.T, path, src string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func emptySceneSrc(w, h int) string {
	return "camera Pinhole\n" +
		"  width " + strconv.Itoa(w) + "\n" +
		"  height " + strconv.Itoa(h) + "\n" +
		"  fov 90\n" +
		"  position 0 0 0\n" +
		"  lookat 0 0 1\n" +
		"  up 0 1 0\n"
}
