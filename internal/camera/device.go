package camera

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"
)

// DeviceSource reads frames from an OpenCV-backed capture device.
type DeviceSource struct {
	id     int
	cap    *gocv.VideoCapture
	mat    gocv.Mat
	logger *slog.Logger
}

// OpenDevice opens the capture device with the given numeric id. Failure to
// open is not fatal to anyone but this camera; callers log it and leave the
// camera's slot unwritten.
func OpenDevice(id int, logger *slog.Logger) (*DeviceSource, error) {
	cap, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("opening camera %d: %w", id, err)
	}
	if !cap.IsOpened() {
		_ = cap.Close()
		return nil, fmt.Errorf("camera %d could not be opened", id)
	}

	return &DeviceSource{
		id:     id,
		cap:    cap,
		mat:    gocv.NewMat(),
		logger: logger,
	}, nil
}

// Read grabs the next frame. The returned data is a copy; the internal
// buffer is reused across reads.
func (s *DeviceSource) Read() (Frame, error) {
	if ok := s.cap.Read(&s.mat); !ok || s.mat.Empty() {
		return Frame{}, fmt.Errorf("camera %d: %w", s.id, ErrNoFrame)
	}

	return Frame{
		Data: s.mat.ToBytes(),
		Shape: Shape{
			Height:   s.mat.Rows(),
			Width:    s.mat.Cols(),
			Channels: s.mat.Channels(),
		},
	}, nil
}

// Close releases the device and the reused frame buffer.
func (s *DeviceSource) Close() error {
	matErr := s.mat.Close()
	if err := s.cap.Close(); err != nil {
		return fmt.Errorf("closing camera %d: %w", s.id, err)
	}
	if matErr != nil {
		return fmt.Errorf("closing camera %d buffer: %w", s.id, matErr)
	}
	return nil
}
