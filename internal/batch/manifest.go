package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one cropped image in the output manifest.
type ManifestEntry struct {
	Source string `json:"source"`
	Image  string `json:"image"`
	Error  string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json for a completed batch run.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Source: r.Path,
			Image:  r.Output,
			Error:  r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadItems reads a JSON item list (paths plus captured transforms) for
// batch runs that replay per-item crop sessions.
func LoadItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read items %s: %w", path, err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("batch: parse items %s: %w", path, err)
	}

	for i := range items {
		if items[i].State.Scale == 0 {
			items[i].State.Scale = 1
		}
	}
	return items, nil
}
