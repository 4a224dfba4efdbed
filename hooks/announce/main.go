// Package main provides an announce hook for macOS.
// It posts a notification whenever Grinshot captures a photo.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Payload is the capture description Grinshot writes to the hook's stdin.
type Payload struct {
	CaptureID  string  `json:"captureId"`
	Path       string  `json:"path"`
	WidthRatio float64 `json:"widthRatio"`
	TakenAt    string  `json:"takenAt"`
}

func main() {
	var p Payload
	if err := json.NewDecoder(os.Stdin).Decode(&p); err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode payload: %v\n", err)
		os.Exit(1)
	}

	text := fmt.Sprintf("Saved %s", p.Path)
	script := fmt.Sprintf("display notification %q with title %q", escape(text), "Grinshot")

	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "osascript failed: %v\n", err)
		os.Exit(1)
	}
}

// escape strips characters that would break the AppleScript string literal.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "")
	return strings.ReplaceAll(s, "\"", "")
}
