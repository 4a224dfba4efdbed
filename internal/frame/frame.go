// Package frame provides raw sensor frame types and pixel format conversion
// for the Grinshot smile shutter.
package frame

import "sync"

// Format identifies the pixel layout of a RawFrame.
type Format int

const (
	// FormatUnknown is the zero value; frames with it never convert.
	FormatUnknown Format = iota
	// FormatYUV420 is a planar 4:2:0 layout: a full-resolution luma plane
	// followed by two half-resolution chroma planes, each with its own
	// row stride and pixel stride.
	FormatYUV420
	// FormatJPEG is an already-compressed frame. Not supported by the
	// converter; listed so sources can tag frames honestly.
	FormatJPEG
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatYUV420:
		return "yuv420"
	case FormatJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// Plane is one pixel plane of a raw frame.
type Plane struct {
	// Data is the plane's byte buffer. It may be shorter or longer than
	// the nominal plane size; readers must bounds-check computed indices.
	Data []byte
	// RowStride is the byte distance between vertically adjacent samples.
	RowStride int
	// PixelStride is the byte distance between horizontally adjacent
	// samples. A value greater than 1 means the plane is interleaved
	// with another.
	PixelStride int
}

// RawFrame is a single captured sensor frame. The capture source recycles a
// bounded pool of frame buffers, so every frame must be released with Close
// exactly once; an unreleased frame eventually stalls the source.
type RawFrame struct {
	format  Format
	width   int
	height  int
	planes  [3]Plane
	release func()
	once    sync.Once
}

// NewRawFrame wraps plane buffers as a frame. The release function is invoked
// exactly once when the frame is closed; it may be nil.
func NewRawFrame(format Format, width, height int, planes [3]Plane, release func()) *RawFrame {
	return &RawFrame{
		format:  format,
		width:   width,
		height:  height,
		planes:  planes,
		release: release,
	}
}

// Format returns the frame's pixel format tag.
func (f *RawFrame) Format() Format { return f.format }

// Width returns the frame width in pixels.
func (f *RawFrame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *RawFrame) Height() int { return f.height }

// Plane returns the i-th pixel plane. For FormatYUV420 plane 0 is luma and
// planes 1 and 2 are the two subsampled chroma planes.
func (f *RawFrame) Plane(i int) Plane {
	if i < 0 || i >= len(f.planes) {
		return Plane{}
	}
	return f.planes[i]
}

// Close releases the frame's buffer back to its source. Calling Close more
// than once is safe; the release function runs only the first time.
func (f *RawFrame) Close() {
	f.once.Do(func() {
		if f.release != nil {
			f.release()
		}
	})
}
