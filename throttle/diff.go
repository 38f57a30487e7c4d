package throttle

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/gsla"
)

// ByteDifference returns the number of pixel-region bytes that differ between
// `a` and `b`. Scanline control bytes and palettes are not compared.
func ByteDifference(a, b []byte) (int, error) {
	if err := checkFrames(a, b); err != nil {
		return 0, err
	}

	total := 0
	for i := 0; i < gsla.PixelRegionSize; i++ {
		if a[i] != b[i] {
			total++
		}
	}
	return total, nil
}

// DiffMask is like [ByteDifference] but also returns a bitmap with one bit per
// pixel-region byte, set where the frames differ.
func DiffMask(a, b []byte) (bitmap.Bitmap, int, error) {
	if err := checkFrames(a, b); err != nil {
		return nil, 0, err
	}

	mask := bitmap.New(gsla.PixelRegionSize)
	total := 0
	for i := 0; i < gsla.PixelRegionSize; i++ {
		if a[i] != b[i] {
			mask.Set(i, true)
			total++
		}
	}
	return mask, total, nil
}

func checkFrames(frames ...[]byte) error {
	for _, frame := range frames {
		if len(frame) < gsla.PixelRegionSize {
			return gsla.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"frame is %d bytes, need at least %d",
					len(frame),
					gsla.PixelRegionSize,
				),
			)
		}
	}
	return nil
}
