package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"avatar-cropper/internal/batch"
	"avatar-cropper/internal/config"
	"avatar-cropper/internal/transform"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	inPath := flag.String("in", "", "Input image file or directory")
	outDir := flag.String("out", "", "Output directory (default: .)")
	itemsFile := flag.String("items", "", "JSON item list with per-image transforms")
	shape := flag.String("shape", "", "Crop shape: circle, circle-dotted, square")
	format := flag.String("format", "", "Output format: png, webp")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	x := flag.Float64("x", 0, "Translation X in viewport pixels (single file)")
	y := flag.Float64("y", 0, "Translation Y in viewport pixels (single file)")
	scale := flag.Float64("scale", 1, "User scale (single file)")
	angle := flag.Float64("angle", 0, "Rotation in radians (single file)")
	vw := flag.Float64("vw", 0, "Capture viewport width (single file)")
	vh := flag.Float64("vh", 0, "Capture viewport height (single file)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputPath: *inPath,
		OutputDir: *outDir,
		Shape:     *shape,
		Format:    *format,
		Workers:   *workers,
	})
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	style, err := cfg.Style()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	exportFormat, err := cfg.ExportFormat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Build item list: explicit items file, a directory, or one file.
	var items []batch.Item
	switch {
	case *itemsFile != "":
		items, err = batch.LoadItems(*itemsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cfg.InputPath != "":
		info, err := os.Stat(cfg.InputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if info.IsDir() {
			items = collectDir(cfg.InputPath)
		} else {
			st := transform.State{X: *x, Y: *y, Scale: *scale, Angle: *angle}
			items = []batch.Item{{
				Path:      cfg.InputPath,
				State:     st,
				ViewportW: *vw,
				ViewportH: *vh,
			}}
		}
	default:
		fmt.Fprintln(os.Stderr, "Error: no input. Use -in, -items or config.json.")
		os.Exit(1)
	}

	if len(items) == 0 {
		fmt.Println("No images to crop.")
		os.Exit(0)
	}

	fmt.Printf("Avatar cropper → %s (%s, fraction %.2f)\n", cfg.Format, cfg.Shape, cfg.CropFraction)
	fmt.Printf("Images: %d, Workers: %d\n", len(items), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir: cfg.OutputDir,
		Style:     style,
		Format:    exportFormat,
		Workers:   cfg.Workers,
		Progress: func(done, total int, rate float64) {
			fmt.Printf("  [%d/%d] %.1f images/sec\n", done, total, rate)
		},
	}

	results := batch.Run(batchCfg, items)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Cropped: %d/%d\n", success, len(items))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Path, e.Error)
		}
	}

	manifestPath, err := writeRunManifest(cfg.OutputDir, results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// writeRunManifest ensures the output directory exists and writes
// manifest.json into it, returning the manifest path.
func writeRunManifest(dir string, results []batch.Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, "manifest.json")
	if err := batch.WriteManifest(path, results); err != nil {
		return "", err
	}
	return path, nil
}

// collectDir gathers image files directly inside dir, identity transforms.
func collectDir(dir string) []batch.Item {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", dir, err)
		os.Exit(1)
	}

	var items []batch.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".png", ".jpg", ".jpeg", ".gif":
			items = append(items, batch.IdentityItem(filepath.Join(dir, e.Name())))
		}
	}
	return items
}
