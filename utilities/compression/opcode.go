package compression

import (
	"fmt"
	"io"

	"github.com/dargueta/gsla"
	"github.com/noxer/bytewriter"
)

const (
	// MaxOpcodeLength is the largest length an opcode header can hold.
	MaxOpcodeLength = 0x7FFF

	// MaxReferenceOffset is the largest offset a reference can hold.
	MaxReferenceOffset = 0xFFFF

	referenceFlag = 0x80

	headerSize    = 2
	referenceSize = headerSize + 2
)

// OpcodeKind distinguishes the two opcode variants.
type OpcodeKind int

const (
	OpLiteral OpcodeKind = iota
	OpReference
)

func (k OpcodeKind) String() string {
	switch k {
	case OpLiteral:
		return "literal"
	case OpReference:
		return "reference"
	}
	return fmt.Sprintf("OpcodeKind(%d)", int(k))
}

// Opcode is one decoded unit of a compressed stream.
type Opcode struct {
	Kind OpcodeKind
	// Length is the number of output bytes the opcode produces.
	Length int
	// Offset is the absolute output offset a reference copies from. It's
	// always 0 for literals.
	Offset int
	// StreamPosition is where the opcode's header starts in the compressed
	// stream.
	StreamPosition int
	// OutputPosition is the output offset the opcode starts writing at.
	OutputPosition int
}

// EncodedSize returns the number of stream bytes the opcode occupies.
func (op Opcode) EncodedSize() int {
	if op.Kind == OpReference {
		return referenceSize
	}
	return headerSize + op.Length
}

func encodeHeader(length int, reference bool) [2]byte {
	high := byte((length >> 8) & 0x7F)
	if reference {
		high |= referenceFlag
	}
	return [2]byte{byte(length & 0xFF), high}
}

func decodeHeader(low, high byte) (length int, reference bool) {
	return int(low) | int(high&0x7F)<<8, high&referenceFlag != 0
}

// OpcodeEncoder serializes opcodes into a fixed-size destination buffer.
//
// Every emission is written immediately and never revisited afterward.
// Merging adjacent literals is the caller's job.
type OpcodeEncoder struct {
	writer     *bytewriter.Writer
	size       int
	written    int
	literals   int
	references int
}

// NewOpcodeEncoder creates an encoder writing to the beginning of `dest`.
func NewOpcodeEncoder(dest []byte) *OpcodeEncoder {
	return &OpcodeEncoder{
		writer: bytewriter.New(dest),
		size:   len(dest),
	}
}

// EmitLiteral writes a literal opcode containing `run` and returns the number
// of bytes written, i.e. `2 + len(run)`.
func (e *OpcodeEncoder) EmitLiteral(run []byte) (int, error) {
	if len(run) == 0 || len(run) > MaxOpcodeLength {
		return 0, gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"literal length must be in [1, %d], got %d",
				MaxOpcodeLength,
				len(run),
			),
		)
	}

	header := encodeHeader(len(run), false)
	if err := e.write(header[:]); err != nil {
		return 0, err
	}
	if err := e.write(run); err != nil {
		return 0, err
	}
	e.literals++
	return headerSize + len(run), nil
}

// EmitReference writes a reference opcode copying `length` bytes from absolute
// output position `offset`. It always writes 4 bytes.
func (e *OpcodeEncoder) EmitReference(length, offset int) (int, error) {
	if length < MinMatchLength || length > MaxOpcodeLength {
		return 0, gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"reference length must be in [%d, %d], got %d",
				MinMatchLength,
				MaxOpcodeLength,
				length,
			),
		)
	}
	if offset < 0 || offset > MaxReferenceOffset {
		return 0, gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"reference offset must be in [0, %d], got %d",
				MaxReferenceOffset,
				offset,
			),
		)
	}

	header := encodeHeader(length, true)
	opcode := [referenceSize]byte{
		header[0],
		header[1],
		byte(offset & 0xFF),
		byte((offset >> 8) & 0xFF),
	}
	if err := e.write(opcode[:]); err != nil {
		return 0, err
	}
	e.references++
	return referenceSize, nil
}

// Len returns the total number of bytes written so far.
func (e *OpcodeEncoder) Len() int {
	return e.written
}

// Literals returns the number of literal opcodes written so far.
func (e *OpcodeEncoder) Literals() int {
	return e.literals
}

// References returns the number of reference opcodes written so far.
func (e *OpcodeEncoder) References() int {
	return e.references
}

func (e *OpcodeEncoder) write(p []byte) error {
	if e.written+len(p) > e.size {
		return gsla.ErrBufferTooSmall.WithMessage(
			fmt.Sprintf(
				"need %d bytes at offset %d, only %d available",
				len(p),
				e.written,
				e.size-e.written,
			),
		)
	}

	n, err := e.writer.Write(p)
	e.written += n
	if n < len(p) {
		if err == nil {
			err = io.ErrShortWrite
		}
		return gsla.ErrBufferTooSmall.Wrap(err)
	}
	return nil
}
