// Package save implements the snapshot format for placed container
// inventories: JSON compressed with zstd.
package save

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Version is written into every snapshot.
const Version = "1"

// Stack is one (item, count) pair of an inventory.
type Stack struct {
	Item  uint32 `json:"item"`
	Count int    `json:"count"`
}

// Instance is the saved inventory of one placed container.
type Instance struct {
	ID       uint32  `json:"id"`
	Contents []Stack `json:"contents"`
}

// Snapshot is the serializable save format.
type Snapshot struct {
	Version   string     `json:"version"`
	Level     int        `json:"level"`
	Instances []Instance `json:"instances"`
}

// Write encodes snap as zstd-compressed JSON.
func Write(w io.Writer, snap *Snapshot) error {
	if snap.Version == "" {
		snap.Version = Version
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("save: zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return fmt.Errorf("save: encode: %w", err)
	}
	return zw.Close()
}

// Read decodes a snapshot written by Write.
func Read(r io.Reader) (*Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("save: zstd reader: %w", err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("save: decode: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("save: unsupported snapshot version %q", snap.Version)
	}
	// Ensure slices are never nil after load.
	if snap.Instances == nil {
		snap.Instances = []Instance{}
	}
	for i := range snap.Instances {
		if snap.Instances[i].Contents == nil {
			snap.Instances[i].Contents = []Stack{}
		}
	}
	return &snap, nil
}
