package frame

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Conversion errors. A failed conversion drops the frame's analysis, never
// the worker.
var (
	// ErrUnsupportedFormat is returned for any frame that is not planar
	// 4:2:0 luma/chroma.
	ErrUnsupportedFormat = errors.New("unsupported frame format")
	// ErrEncodeFailed is returned when the interleaved buffer cannot be
	// compressed to JPEG.
	ErrEncodeFailed = errors.New("jpeg encode failed")
	// ErrDecodeFailed is returned when the compressed frame cannot be
	// decoded back into an image.
	ErrDecodeFailed = errors.New("jpeg decode failed")
)

// JPEGQuality is the quality factor for the compress/decompress round trip.
const JPEGQuality = 90

// Converter turns planar YUV 4:2:0 frames into decodable BGR images via an
// interleaved-chroma buffer and a JPEG round trip at fixed quality.
type Converter struct{}

// NewConverter creates a Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert produces a decodable image from a raw frame. It does not release
// the frame; that stays with the caller. The returned Mat is owned by the
// caller and must be closed.
func (c *Converter) Convert(f *RawFrame) (*gocv.Mat, error) {
	buf, err := Interleave(f)
	if err != nil {
		return nil, err
	}

	w, h := f.Width(), f.Height()

	yuv, err := gocv.NewMatFromBytes(h*3/2, w, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	defer yuv.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(yuv, &bgr, gocv.ColorYUVToBGRNV21)
	if bgr.Empty() {
		return nil, fmt.Errorf("%w: color conversion produced empty image", ErrEncodeFailed)
	}

	jpg, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, bgr, []int{gocv.IMWriteJpegQuality, JPEGQuality})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	defer jpg.Close()

	img, err := gocv.IMDecode(jpg.GetBytes(), gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if img.Empty() {
		img.Close()
		return nil, fmt.Errorf("%w: decoded image is empty", ErrDecodeFailed)
	}

	return &img, nil
}

// Interleave assembles a contiguous luma-then-interleaved-chroma buffer of
// width*height*3/2 bytes from the frame's three planes.
//
// The luma plane is copied row by row into the head of the buffer. When both
// chroma planes have unit pixel stride they are bulk-copied after it, second
// chroma plane first, then the first. Otherwise each cell of the half
// resolution chroma grid is fetched independently at
// row*rowStride + col*pixelStride and the two chroma bytes written in that
// same fixed order; cells whose computed index falls outside the source plane
// are left zero rather than failing the frame.
func Interleave(f *RawFrame) ([]byte, error) {
	if f.Format() != FormatYUV420 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Format())
	}

	w, h := f.Width(), f.Height()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d frame", ErrUnsupportedFormat, w, h)
	}

	out := make([]byte, w*h*3/2)
	y, u, v := f.Plane(0), f.Plane(1), f.Plane(2)

	// Luma, row-aware so padded strides don't leak into the output.
	for row := 0; row < h; row++ {
		src := row * y.RowStride
		if src >= len(y.Data) {
			break
		}
		end := src + w
		if end > len(y.Data) {
			end = len(y.Data)
		}
		copy(out[row*w:], y.Data[src:end])
	}

	cw, ch := w/2, h/2
	base := w * h
	chromaSize := cw * ch

	if u.PixelStride == 1 && v.PixelStride == 1 {
		// Tightly packed chroma: bulk copy, second plane first.
		copy(out[base:base+chromaSize], v.Data)
		copy(out[base+chromaSize:], u.Data)
		return out, nil
	}

	for row := 0; row < ch; row++ {
		for col := 0; col < cw; col++ {
			dst := base + (row*cw+col)*2
			if vi := row*v.RowStride + col*v.PixelStride; vi >= 0 && vi < len(v.Data) {
				out[dst] = v.Data[vi]
			}
			if ui := row*u.RowStride + col*u.PixelStride; ui >= 0 && ui < len(u.Data) {
				out[dst+1] = u.Data[ui]
			}
		}
	}

	return out, nil
}
