package camera

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Resize scales a frame to the wanted height and width using OpenCV area
// interpolation. Area interpolation is deterministic and is the sensible
// choice for the usual case of shrinking an oversized sensor frame to the
// slot shape. Channel counts cannot be converted here; a channel mismatch
// is an error.
func Resize(f Frame, want Shape) (Frame, error) {
	if f.Shape == want {
		return f, nil
	}
	if f.Shape.Channels != want.Channels {
		return Frame{}, fmt.Errorf("cannot resize %d-channel frame to %d channels",
			f.Shape.Channels, want.Channels)
	}
	if len(f.Data) != f.Shape.Size() {
		return Frame{}, fmt.Errorf("frame data is %d bytes but shape %v wants %d",
			len(f.Data), f.Shape, f.Shape.Size())
	}

	matType, err := matTypeForChannels(f.Shape.Channels)
	if err != nil {
		return Frame{}, err
	}

	src, err := gocv.NewMatFromBytes(f.Shape.Height, f.Shape.Width, matType, f.Data)
	if err != nil {
		return Frame{}, fmt.Errorf("wrapping frame for resize: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	gocv.Resize(src, &dst, image.Pt(want.Width, want.Height), 0, 0, gocv.InterpolationArea)

	return Frame{Data: dst.ToBytes(), Shape: want}, nil
}

func matTypeForChannels(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 4:
		return gocv.MatTypeCV8UC4, nil
	default:
		return 0, fmt.Errorf("unsupported channel count %d", channels)
	}
}
