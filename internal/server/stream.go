// Package server provides the HTTP dashboard server for the Grinshot smile shutter.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/anika/grinshot/internal/capture"
	"github.com/anika/grinshot/internal/frame"
	"gocv.io/x/gocv"
)

// PreviewHandler serves MJPEG frames from the camera.
type PreviewHandler struct {
	camera    capture.Camera
	converter *frame.Converter
}

// NewPreviewHandler creates a new PreviewHandler with the given camera and
// converter.
func NewPreviewHandler(camera capture.Camera, converter *frame.Converter) *PreviewHandler {
	return &PreviewHandler{camera: camera, converter: converter}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		f, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		img, err := h.converter.Convert(f)
		f.Close()
		if err != nil {
			continue
		}

		buf, err := gocv.IMEncode(gocv.JPEGFileExt, *img)
		img.Close()
		if err != nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}
