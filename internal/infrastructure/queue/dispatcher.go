// Package queue runs the background thumbnail workers. Uploaded originals
// are served as-is; workers derive a smaller variant for gallery grids.
package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/estatehub/listings-api/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	thumbWidth     = 480
)

// Dispatcher routes thumbnail jobs to a fixed set of workers using consistent
// hashing on the filename, so a re-uploaded file never has two workers
// writing the same variant concurrently.
type Dispatcher struct {
	workers   []chan string
	uploadDir string
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers reading
// originals from (and writing variants under) uploadDir.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, uploadDir string, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan string, numWorkers),
		uploadDir: uploadDir,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a stored filename to the worker responsible for it.
// The call blocks only once the worker's buffer is full.
func (d *Dispatcher) Enqueue(filename string) {
	if filename == "" {
		return
	}
	d.workers[d.shardIndex(filename)] <- filename
}

// shardIndex maps a filename deterministically to a worker index.
func (d *Dispatcher) shardIndex(filename string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(filename))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case filename, ok := <-ch:
			if !ok {
				return
			}
			start := time.Now()
			if err := d.process(filename); err != nil {
				// Best-effort: a file that does not decode as an image
				// simply gets no thumbnail.
				metrics.ThumbnailJobsTotal.WithLabelValues("error").Inc()
				d.log.Warn().Err(err).
					Str("filename", filename).
					Int("worker_id", id).
					Msg("thumbnail generation failed")
				continue
			}
			metrics.ThumbnailJobsTotal.WithLabelValues("ok").Inc()
			metrics.ThumbnailDuration.Observe(time.Since(start).Seconds())
		}
	}
}

// process decodes the original and writes a thumbWidth-wide JPEG variant to
// thumbs/<name>.jpg, preserving aspect ratio.
func (d *Dispatcher) process(filename string) error {
	img, err := imaging.Open(filepath.Join(d.uploadDir, filename))
	if err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)

	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	out := filepath.Join(d.uploadDir, "thumbs", name)
	if err := imaging.Save(thumb, out, imaging.JPEGQuality(82)); err != nil {
		return fmt.Errorf("save thumbnail %s: %w", name, err)
	}
	return nil
}
