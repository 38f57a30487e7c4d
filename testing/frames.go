package testing

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/dargueta/gsla"
	"github.com/dargueta/gsla/formats/c2"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// RandomBytes returns `size` random bytes. It is guaranteed to either return a
// valid slice or fail the test and abort.
func RandomBytes(t *testing.T, size int) []byte {
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoErrorf(t, err, "failed to generate %d random bytes", size)
	return data
}

// NoRepeatedTrigrams returns `size` bytes in which no three-byte sequence
// occurs more than once, so nothing in it can be encoded as a reference.
// `size` can be at most 32,768.
//
// Even positions hold the low 7 bits of a counter (0-127) and odd positions
// hold the high bits plus 128, so every window of three bytes identifies its
// own position.
func NoRepeatedTrigrams(t *testing.T, size int) []byte {
	require.LessOrEqual(t, size, 2*128*128, "can't build that many unique trigrams")

	data := make([]byte, size)
	for i := range data {
		counter := i / 2
		if i%2 == 0 {
			data[i] = byte(counter & 0x7F)
		} else {
			data[i] = byte(0x80 | (counter >> 7))
		}
	}
	return data
}

// SyntheticFrame builds a full-size frame resembling a simple animation cel:
// horizontal color bands, a filled box whose position depends on `step`, and
// a palette. Consecutive steps differ in a few hundred bytes.
func SyntheticFrame(step int) []byte {
	frame := make([]byte, gsla.FrameSize)

	for y := 0; y < gsla.ScreenHeight; y++ {
		color := byte(y/25) & 0x0F
		row := frame[y*gsla.BytesPerRow : (y+1)*gsla.BytesPerRow]
		for x := range row {
			row[x] = color<<4 | color
		}
	}

	boxX := (step * 3) % (gsla.BytesPerRow - 16)
	boxY := (step * 5) % (gsla.ScreenHeight - 24)
	for y := boxY; y < boxY+24; y++ {
		for x := boxX; x < boxX+16; x++ {
			frame[y*gsla.BytesPerRow+x] = 0xEE
		}
	}

	for i := 0; i < gsla.PaletteSize; i += 2 {
		frame[gsla.PaletteOffset+i] = byte(i)
		frame[gsla.PaletteOffset+i+1] = byte(i >> 4)
	}
	return frame
}

// SyntheticAnimation returns `count` consecutive [SyntheticFrame] frames.
func SyntheticAnimation(count int) [][]byte {
	frames := make([][]byte, count)
	for i := range frames {
		frames[i] = SyntheticFrame(i)
	}
	return frames
}

// CloneFrames returns a deep copy of `frames`.
func CloneFrames(frames [][]byte) [][]byte {
	clone := make([][]byte, len(frames))
	for i, frame := range frames {
		clone[i] = bytes.Clone(frame)
	}
	return clone
}

// LoadC2Image encodes `frames` as a C2 animation and returns a stream over the
// file's bytes.
//
//   - Writes to the stream do not affect `frames`.
//   - The stream's size is fixed to the size of the encoded file. Attempting
//     to write past the end of it will trigger an error.
func LoadC2Image(t *testing.T, frames [][]byte, timing uint32) io.ReadWriteSeeker {
	require.Greater(t, len(frames), 0, "an animation needs at least one frame")

	encoded, err := c2.Encode(frames, timing)
	require.NoError(t, err)
	return bytesextra.NewReadWriteSeeker(encoded)
}
