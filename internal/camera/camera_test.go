package camera

import (
	"errors"
	"testing"
)

func TestShapeSize(t *testing.T) {
	cases := []struct {
		shape Shape
		want  int
	}{
		{Shape{Height: 480, Width: 640, Channels: 3}, 921600},
		{Shape{Height: 1, Width: 1, Channels: 1}, 1},
		{Shape{Height: 0, Width: 640, Channels: 3}, 0},
	}
	for _, tc := range cases {
		if got := tc.shape.Size(); got != tc.want {
			t.Errorf("Size(%v) = %d, want %d", tc.shape, got, tc.want)
		}
	}
}

func TestResizeNoopOnMatchingShape(t *testing.T) {
	shape := Shape{Height: 2, Width: 2, Channels: 3}
	f := Frame{Data: make([]byte, shape.Size()), Shape: shape}

	got, err := Resize(f, shape)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if &got.Data[0] != &f.Data[0] {
		t.Error("expected matching-shape resize to return the frame unchanged")
	}
}

func TestResizeChannelMismatch(t *testing.T) {
	f := Frame{
		Data:  make([]byte, 4),
		Shape: Shape{Height: 2, Width: 2, Channels: 1},
	}
	if _, err := Resize(f, Shape{Height: 2, Width: 2, Channels: 3}); err == nil {
		t.Error("expected error for channel mismatch")
	}
}

func TestResizeRejectsInconsistentData(t *testing.T) {
	f := Frame{
		Data:  make([]byte, 5), // shape says 12
		Shape: Shape{Height: 2, Width: 2, Channels: 3},
	}
	if _, err := Resize(f, Shape{Height: 1, Width: 1, Channels: 3}); err == nil {
		t.Error("expected error for data/shape mismatch")
	}
}

func TestResizeProducesTargetShape(t *testing.T) {
	src := Shape{Height: 4, Width: 4, Channels: 3}
	want := Shape{Height: 2, Width: 2, Channels: 3}

	f := Frame{Data: make([]byte, src.Size()), Shape: src}
	for i := range f.Data {
		f.Data[i] = byte(i)
	}

	got, err := Resize(f, want)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if got.Shape != want {
		t.Errorf("result shape = %v, want %v", got.Shape, want)
	}
	if len(got.Data) != want.Size() {
		t.Errorf("result is %d bytes, want %d", len(got.Data), want.Size())
	}
}

func TestErrNoFrameIsMatchable(t *testing.T) {
	err := errors.Join(errors.New("camera 0"), ErrNoFrame)
	if !errors.Is(err, ErrNoFrame) {
		t.Error("expected wrapped ErrNoFrame to match errors.Is")
	}
}
