// Package hook provides discovery and execution of post-capture hook
// executables for the Grinshot smile shutter.
package hook

import "time"

// Manifest describes a hook's metadata.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
}

// Payload is the JSON document written to a hook's stdin after a capture.
type Payload struct {
	CaptureID  string    `json:"captureId"`
	Path       string    `json:"path"`
	WidthRatio float64   `json:"widthRatio"`
	TakenAt    time.Time `json:"takenAt"`
}

// Hook represents a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}
