package throttle_test

import (
	"testing"

	"github.com/dargueta/gsla"
	gtesting "github.com/dargueta/gsla/testing"
	"github.com/dargueta/gsla/throttle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteDifference__Identical(t *testing.T) {
	frame := gtesting.SyntheticFrame(3)
	delta, err := throttle.ByteDifference(frame, gtesting.CloneFrames([][]byte{frame})[0])
	require.NoError(t, err)
	assert.Zero(t, delta)
}

func TestByteDifference__IgnoresControlBytes(t *testing.T) {
	a := make([]byte, gsla.FrameSize)
	b := make([]byte, gsla.FrameSize)

	b[gsla.SCBOffset] = 0x0F
	b[gsla.PaletteOffset+10] = 0xFF
	b[0] = 1
	b[gsla.PixelRegionSize-1] = 1

	delta, err := throttle.ByteDifference(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, delta, "only the two pixel bytes should count")
}

func TestDiffMask(t *testing.T) {
	a := make([]byte, gsla.PixelRegionSize)
	b := make([]byte, gsla.PixelRegionSize)
	changed := []int{0, 7, 8, 161, 31999}
	for _, offset := range changed {
		b[offset] = 0x55
	}

	mask, count, err := throttle.DiffMask(a, b)
	require.NoError(t, err)
	assert.Equal(t, len(changed), count)
	assert.Equal(t, gsla.PixelRegionSize, mask.Len())

	set := 0
	for i := 0; i < mask.Len(); i++ {
		if mask.Get(i) {
			set++
			assert.Contains(t, changed, i, "unexpected bit set")
		}
	}
	assert.Equal(t, len(changed), set)
}

func TestByteDifference__ShortFrame(t *testing.T) {
	_, err := throttle.ByteDifference(make([]byte, 100), make([]byte, gsla.FrameSize))
	assert.ErrorIs(t, err, gsla.ErrInvalidArgument)

	_, _, err = throttle.DiffMask(make([]byte, gsla.FrameSize), nil)
	assert.ErrorIs(t, err, gsla.ErrInvalidArgument)
}
