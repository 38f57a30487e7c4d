// Package container reads and writes packaged animations: a small header followed
// by one LZB-compressed payload per frame.
//
//	0   4  magic "GSLA"
//	4   2  format version
//	6   2  number of frames
//	8   2  width in pixels
//	10  2  height in pixels
//	12  4  decompressed size of each frame
//	16  4  timing
//	20     frames, each a 4-byte payload length followed by the payload
//
// All integers are little-endian.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/gsla"
	"github.com/dargueta/gsla/utilities/compression"
)

const (
	Magic   = "GSLA"
	Version = 1

	// HeaderSize is the size of the fixed header in bytes.
	HeaderSize = 20

	frameCountOffset = 6
	maxFrames        = 0xFFFF
)

// Info describes the frames held in a container.
type Info struct {
	Width       uint16
	Height      uint16
	FrameLength uint32
	Timing      uint32
}

// DefaultInfo returns the settings for full-screen frames.
func DefaultInfo(timing uint32) Info {
	return Info{
		Width:       gsla.ScreenWidthPixels,
		Height:      gsla.ScreenHeight,
		FrameLength: gsla.FrameSize,
		Timing:      timing,
	}
}

type rawHeader struct {
	Magic      [4]byte
	Version    uint16
	FrameCount uint16
	Info
}

////////////////////////////////////////////////////////////////////////////////

// Writer appends compressed frames to a container. The frame count in the
// header is filled in by Close.
type Writer struct {
	stream       io.WriteSeeker
	info         Info
	frames       int
	bytesWritten int64
	closed       bool
}

// NewWriter writes a header to the current position of `stream`, which must
// be the beginning of it.
func NewWriter(stream io.WriteSeeker, info Info) (*Writer, error) {
	if info.FrameLength == 0 {
		return nil, gsla.ErrInvalidArgument.WithMessage("frame length can't be 0")
	}

	header := rawHeader{Version: Version, Info: info}
	copy(header.Magic[:], Magic)

	err := binary.Write(stream, binary.LittleEndian, &header)
	if err != nil {
		return nil, gsla.ErrIOFailed.Wrap(err)
	}

	return &Writer{
		stream:       stream,
		info:         info,
		bytesWritten: HeaderSize,
	}, nil
}

// WriteFrame appends one compressed frame. Frames must be written in order
// starting from 0, and `rawLength` must match the frame length the writer was
// created with.
func (w *Writer) WriteFrame(index int, payload []byte, rawLength int) error {
	if w.closed {
		return gsla.ErrInvalidArgument.WithMessage("writer is closed")
	}
	if index != w.frames {
		return gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("expected frame %d, got frame %d", w.frames, index))
	}
	if rawLength != int(w.info.FrameLength) {
		return gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"frame %d decompresses to %d bytes, container holds %d-byte frames",
				index,
				rawLength,
				w.info.FrameLength,
			),
		)
	}
	if w.frames >= maxFrames {
		return gsla.ErrNotSupported.WithMessage(
			fmt.Sprintf("a container can hold at most %d frames", maxFrames))
	}

	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(payload)))
	if err := w.write(length[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if err := w.write(payload); err != nil {
			return err
		}
	}

	w.frames++
	return nil
}

// FramesWritten returns the number of frames written so far.
func (w *Writer) FramesWritten() int {
	return w.frames
}

// BytesWritten returns the size of the container so far.
func (w *Writer) BytesWritten() int64 {
	return w.bytesWritten
}

// Close records the number of frames in the header. It does not close the
// underlying stream.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.stream.Seek(frameCountOffset, io.SeekStart)
	if err != nil {
		return gsla.ErrIOFailed.Wrap(err)
	}

	var count [2]byte
	binary.LittleEndian.PutUint16(count[:], uint16(w.frames))
	_, err = w.stream.Write(count[:])
	if err != nil {
		return gsla.ErrIOFailed.Wrap(err)
	}
	return nil
}

func (w *Writer) write(p []byte) error {
	n, err := w.stream.Write(p)
	w.bytesWritten += int64(n)
	if err != nil {
		return gsla.ErrIOFailed.Wrap(err)
	}
	if n < len(p) {
		return gsla.ErrIOFailed.Wrap(io.ErrShortWrite)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// Animation is a container read into memory.
type Animation struct {
	Version  uint16
	Info     Info
	payloads [][]byte
}

// Read parses a whole container from `r`.
func Read(r io.Reader) (*Animation, error) {
	header := rawHeader{}
	err := binary.Read(r, binary.LittleEndian, &header)
	if err != nil {
		return nil, containerError("header", err)
	}
	if string(header.Magic[:]) != Magic {
		return nil, gsla.ErrInvalidContainer.WithMessage(
			fmt.Sprintf("bad magic %q", header.Magic[:]))
	}
	if header.Version != Version {
		return nil, gsla.ErrNotSupported.WithMessage(
			fmt.Sprintf("container version %d", header.Version))
	}

	animation := &Animation{
		Version:  header.Version,
		Info:     header.Info,
		payloads: make([][]byte, 0, header.FrameCount),
	}

	for i := 0; i < int(header.FrameCount); i++ {
		var length uint32
		err = binary.Read(r, binary.LittleEndian, &length)
		if err != nil {
			return nil, containerError(fmt.Sprintf("frame %d length", i), err)
		}

		limit := compression.MaxCompressedLen(int(header.FrameLength))
		if int64(length) > int64(limit) {
			return nil, gsla.ErrInvalidContainer.WithMessage(
				fmt.Sprintf("frame %d payload is %d bytes, limit is %d", i, length, limit))
		}

		payload := make([]byte, length)
		_, err = io.ReadFull(r, payload)
		if err != nil {
			return nil, containerError(fmt.Sprintf("frame %d payload", i), err)
		}
		animation.payloads = append(animation.payloads, payload)
	}
	return animation, nil
}

func containerError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return gsla.ErrInvalidContainer.WithMessage("truncated " + what)
	}
	return gsla.ErrIOFailed.Wrap(err)
}

// FrameCount returns the number of frames in the container.
func (a *Animation) FrameCount() int {
	return len(a.payloads)
}

// Payload returns the compressed bytes of frame `index`.
func (a *Animation) Payload(index int) []byte {
	return a.payloads[index]
}

// Timing returns the timing value from the header.
func (a *Animation) Timing() uint32 {
	return a.Info.Timing
}

// DecodeFrame validates and decompresses frame `index`. A corrupt payload is
// reported as an error wrapping [gsla.ErrCorruptStream].
func (a *Animation) DecodeFrame(index int) ([]byte, error) {
	if index < 0 || index >= len(a.payloads) {
		return nil, gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("frame %d out of range [0, %d)", index, len(a.payloads)))
	}

	frame, err := compression.DecompressChecked(a.payloads[index], int(a.Info.FrameLength))
	if err != nil {
		if kind, ok := err.(gsla.Error); ok {
			return nil, kind.WithMessage(fmt.Sprintf("frame %d", index))
		}
		return nil, err
	}
	return frame, nil
}
