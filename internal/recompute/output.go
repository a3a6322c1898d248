package recompute

import (
	"encoding/json"
	"fmt"
	"os"

	"storyreel/internal/fileutil"
)

// WriteTimelineFile atomically writes snap as indented JSON.
func WriteTimelineFile(path string, snap Snapshot) error {
	return fileutil.WriteJSONAtomic(path, snap)
}

// ReadTimelineFile decodes a file written by WriteTimelineFile.
func ReadTimelineFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read timeline: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode timeline: %w", err)
	}
	return snap, nil
}
