// Package camera wraps physical or virtual capture devices behind a small
// Source interface: produce one frame on demand, or report failure.
package camera

import "errors"

// ErrNoFrame is returned when a device produced nothing this read: no
// frame available, or a transient device error. Callers skip the camera
// for the current tick and try again on the next one.
var ErrNoFrame = errors.New("camera: no frame available")

// Shape describes a frame layout: row-major, channel-interleaved,
// 8-bit unsigned samples.
type Shape struct {
	Height   int
	Width    int
	Channels int
}

// Size returns the byte size of a frame with this shape.
func (s Shape) Size() int {
	return s.Height * s.Width * s.Channels
}

// Frame is one captured image.
type Frame struct {
	Data  []byte
	Shape Shape
}

// Source produces frames from one camera device.
type Source interface {
	// Read returns the next frame or ErrNoFrame when the device has
	// nothing to offer right now.
	Read() (Frame, error)
	Close() error
}
