// Package c2 reads and writes Paintworks animation (C2) files.
//
// A C2 file starts with a complete 32 KiB picture, followed by a short header
// and then a list of changes. Each change is a pair of little-endian words:
// an offset into the picture and two bytes to store there. An offset of zero
// marks the end of a frame.
//
//	0000-7FFF  first picture
//	8000-8003  length of the data after 8008
//	8004-8007  timing
//	8008-800B  length of the first frame's changes
//	800C-      (offset, data) pairs
package c2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dargueta/gsla"
)

// HeaderSize is the size of the first picture plus the header fields.
const HeaderSize = gsla.FrameSize + 12

// endOfFrame is the data word written with a zero offset.
const endOfFrame = 0xFFFF

// Header holds the fixed fields following the first picture.
type Header struct {
	DataLength       uint32
	Timing           uint32
	FirstFrameLength uint32
}

type rawHeader struct {
	FirstPicture [gsla.FrameSize]byte
	Header
}

// File is a decoded animation. Every frame is a complete picture of
// [gsla.FrameSize] bytes.
type File struct {
	Header Header
	frames [][]byte
}

// Load reads an entire C2 file from `r`.
func Load(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, gsla.ErrIOFailed.Wrap(err)
	}
	return Parse(data)
}

// Parse decodes a C2 file held in memory.
//
// Change records are applied to a running canvas, and a copy of the canvas
// becomes a frame at every end-of-frame record. Offsets are masked to the
// picture; a word stored at the very last byte loses its high byte. A partial
// record at the end of the file is ignored.
func Parse(data []byte) (*File, error) {
	if len(data) < HeaderSize {
		return nil, gsla.ErrInvalidContainer.WithMessage(
			fmt.Sprintf(
				"file is %d bytes, too short for the %d-byte header",
				len(data),
				HeaderSize,
			),
		)
	}

	raw := rawHeader{}
	err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &raw)
	if err != nil {
		return nil, gsla.ErrInvalidContainer.Wrap(err)
	}

	file := &File{Header: raw.Header}
	canvas := make([]byte, gsla.FrameSize)
	copy(canvas, raw.FirstPicture[:])
	file.frames = append(file.frames, bytes.Clone(canvas))

	for cursor := HeaderSize; cursor+4 <= len(data); cursor += 4 {
		offset := binary.LittleEndian.Uint16(data[cursor:])
		word := binary.LittleEndian.Uint16(data[cursor+2:])

		if offset == 0 {
			file.frames = append(file.frames, bytes.Clone(canvas))
			continue
		}

		position := int(offset & 0x7FFF)
		canvas[position] = byte(word)
		if position+1 < len(canvas) {
			canvas[position+1] = byte(word >> 8)
		}
	}
	return file, nil
}

// FrameCount returns the number of frames, including the first picture.
func (f *File) FrameCount() int {
	return len(f.frames)
}

// Frame returns frame `index`. The slice belongs to the file; modifying it
// modifies the file's copy.
func (f *File) Frame(index int) []byte {
	return f.frames[index]
}

// Frames returns all frames in order.
func (f *File) Frames() [][]byte {
	return f.frames
}

// Timing returns the playback timing value from the header.
func (f *File) Timing() uint32 {
	return f.Header.Timing
}

// Encode builds a C2 file showing `frames` in order. The first frame becomes
// the initial picture and each later frame is stored as the words that
// differ from the frame before it.
func Encode(frames [][]byte, timing uint32) ([]byte, error) {
	if len(frames) == 0 {
		return nil, gsla.ErrInvalidArgument.WithMessage("an animation needs at least one frame")
	}
	for i, frame := range frames {
		if len(frame) != gsla.FrameSize {
			return nil, gsla.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"frame %d is %d bytes, expected %d",
					i,
					len(frame),
					gsla.FrameSize,
				),
			)
		}
	}

	records := bytes.Buffer{}
	firstFrameLength := 0
	for i := 1; i < len(frames); i++ {
		prev := frames[i-1]
		curr := frames[i]

		for position := 0; position < gsla.FrameSize; position += 2 {
			if prev[position] == curr[position] && prev[position+1] == curr[position+1] {
				continue
			}

			offset := uint16(position)
			if offset == 0 {
				// Zero would end the frame. The high bit is masked off on load.
				offset = 0x8000
			}
			writeRecord(&records, offset, binary.LittleEndian.Uint16(curr[position:]))
		}
		writeRecord(&records, 0, endOfFrame)

		if i == 1 {
			firstFrameLength = records.Len()
		}
	}

	header := rawHeader{
		Header: Header{
			DataLength:       uint32(records.Len() + 4),
			Timing:           timing,
			FirstFrameLength: uint32(firstFrameLength),
		},
	}
	copy(header.FirstPicture[:], frames[0])

	output := bytes.Buffer{}
	output.Grow(HeaderSize + records.Len())
	if err := binary.Write(&output, binary.LittleEndian, &header); err != nil {
		return nil, gsla.ErrIOFailed.Wrap(err)
	}
	output.Write(records.Bytes())
	return output.Bytes(), nil
}

func writeRecord(buffer *bytes.Buffer, offset, word uint16) {
	var record [4]byte
	binary.LittleEndian.PutUint16(record[:2], offset)
	binary.LittleEndian.PutUint16(record[2:], word)
	buffer.Write(record[:])
}
