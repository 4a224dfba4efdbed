package capture

import (
	"fmt"
	"sync"

	"github.com/anika/grinshot/internal/frame"
)

// MockCamera plays back synthetic planar frames for testing. Every frame it
// hands out counts its own release, so tests can assert the exactly-once
// contract.
type MockCamera struct {
	frames   []*frame.RawFrame
	index    int
	loop     bool
	mu       sync.Mutex
	running  bool
	reads    int
	released int
}

// NewMockCamera creates a mock camera playing the given frame sequence.
func NewMockCamera(frames []*frame.RawFrame, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// ReadFrame returns the next frame in the sequence. The returned frame
// shares plane data with the stored one but carries its own release counter.
func (c *MockCamera) ReadFrame() (*frame.RawFrame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	src := c.frames[c.index]
	c.index++
	c.reads++

	return frame.NewRawFrame(src.Format(), src.Width(), src.Height(),
		[3]frame.Plane{src.Plane(0), src.Plane(1), src.Plane(2)},
		func() {
			c.mu.Lock()
			c.released++
			c.mu.Unlock()
		}), nil
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return 15 }
func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reads returns how many frames have been handed out.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Released returns how many handed-out frames have been closed.
func (c *MockCamera) Released() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// SetFrames replaces the frame sequence
func (c *MockCamera) SetFrames(frames []*frame.RawFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// Reset restarts playback from the beginning
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}

// GradientFrame builds a synthetic planar 4:2:0 frame whose luma values ramp
// along each row, offset by the given seed so consecutive frames differ.
func GradientFrame(w, h int, seed byte) *frame.RawFrame {
	luma := make([]byte, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			luma[row*w+col] = byte(col) + seed
		}
	}

	chroma := w * h / 4
	u := make([]byte, chroma)
	v := make([]byte, chroma)
	for i := range u {
		u[i] = 0x80
		v[i] = 0x80
	}

	return frame.NewRawFrame(frame.FormatYUV420, w, h, [3]frame.Plane{
		{Data: luma, RowStride: w, PixelStride: 1},
		{Data: u, RowStride: w / 2, PixelStride: 1},
		{Data: v, RowStride: w / 2, PixelStride: 1},
	}, nil)
}
