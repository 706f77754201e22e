// Package batch crops many source images with shared settings using a
// worker pool.
package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	// Registered decoders for the file-loading plumbing. The crop engine
	// itself never decodes.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"avatar-cropper/internal/export"
	"avatar-cropper/internal/geometry"
	"avatar-cropper/internal/render"
	"avatar-cropper/internal/transform"
)

// Default capture viewport assumed for items whose transform was recorded
// without one. Only translation depends on it, so identity items are
// unaffected.
const defaultViewportSide = 1000.0

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Style     render.Style
	Format    export.Format
	Workers   int
	Progress  func(done, total int, rate float64)
}

// Item is one source image plus the transform captured for it.
type Item struct {
	Path      string          `json:"path"`
	State     transform.State `json:"state"`
	ViewportW float64         `json:"viewport_w"`
	ViewportH float64         `json:"viewport_h"`
}

// IdentityItem builds an Item that produces the centered default crop.
func IdentityItem(path string) Item {
	return Item{Path: path, State: transform.Identity()}
}

// Result holds the outcome of processing one item.
type Result struct {
	Path    string
	Output  string
	Success bool
	Error   string
}

// Run processes all items using a worker pool.
func Run(cfg Config, items []Item) []Result {
	total := len(items)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 && cfg.Progress != nil {
					elapsed := time.Since(start).Seconds()
					cfg.Progress(int(p), total, float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	itemChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				results[idx] = processItem(cfg, items[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range items {
		itemChan <- i
	}
	close(itemChan)

	wg.Wait()
	close(done)

	return results
}

func processItem(cfg Config, item Item) Result {
	src, err := loadImage(item.Path)
	if err != nil {
		return Result{Path: item.Path, Error: err.Error()}
	}

	vp := geometry.Viewport{
		Width:        item.ViewportW,
		Height:       item.ViewportH,
		CropFraction: cfg.Style.CropFraction,
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		vp.Width = defaultViewportSide
		vp.Height = defaultViewportSide
	}

	renderer := &render.Renderer{Style: cfg.Style}
	raster, err := renderer.Export(src, item.State, vp)
	if err != nil {
		return Result{Path: item.Path, Error: err.Error()}
	}

	outPath := filepath.Join(cfg.OutputDir, outputName(item.Path, cfg.Format))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return Result{Path: item.Path, Error: err.Error()}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return Result{Path: item.Path, Error: err.Error()}
	}
	defer f.Close()

	if err := export.Encode(f, raster, cfg.Format); err != nil {
		return Result{Path: item.Path, Error: err.Error()}
	}

	return Result{Path: item.Path, Output: outPath, Success: true}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("batch: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("batch: decode %s: %w", path, err)
	}
	return img, nil
}

func outputName(inPath string, f export.Format) string {
	base := filepath.Base(inPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "." + f.String()
}
