package queue

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeTestImage(t *testing.T, dir, name string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
}

func newTestDispatcher(t *testing.T) (*Dispatcher, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "thumbs"), 0o755); err != nil {
		t.Fatalf("mkdir thumbs: %v", err)
	}
	return NewDispatcher(2, dir, zerolog.Nop()), dir
}

func TestDispatcher_Process_WritesJPEGVariant(t *testing.T) {
	d, dir := newTestDispatcher(t)
	writeTestImage(t, dir, "1700000000000-house.png", 960, 640)

	if err := d.process("1700000000000-house.png"); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	out := filepath.Join(dir, "thumbs", "1700000000000-house.jpg")
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg variant, got %s", format)
	}
	if cfg.Width != 480 {
		t.Fatalf("expected width 480, got %d", cfg.Width)
	}
	// Aspect ratio preserved: 960x640 scaled to 480 wide is 320 tall.
	if cfg.Height != 320 {
		t.Fatalf("expected height 320, got %d", cfg.Height)
	}
}

func TestDispatcher_Process_RejectsNonImage(t *testing.T) {
	d, dir := newTestDispatcher(t)
	if err := os.WriteFile(filepath.Join(dir, "fake.jpg"), []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := d.process("fake.jpg"); err == nil {
		t.Fatalf("expected decode error for non-image payload")
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "thumbs"))
	if len(entries) != 0 {
		t.Fatalf("thumbnail written for non-image payload")
	}
}

func TestDispatcher_ShardIndex_Deterministic(t *testing.T) {
	d, _ := newTestDispatcher(t)

	first := d.shardIndex("1700000000000-house.png")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("1700000000000-house.png"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= len(d.workers) {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_Enqueue_SkipsEmptyFilename(t *testing.T) {
	d, _ := newTestDispatcher(t)

	// Must not panic or block; no worker is running.
	d.Enqueue("")
	for _, ch := range d.workers {
		if len(ch) != 0 {
			t.Fatalf("empty filename was enqueued")
		}
	}
}
