package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/dargueta/gsla"
)

// ParseOpcodes walks `stream` as the decompressor would for an output of
// `destLength` bytes, checking every opcode against the bounds of both
// buffers. It returns the opcodes and the number of stream bytes they use.
//
// Errors wrap [gsla.ErrCorruptStream]. On error the opcodes parsed before the
// bad one are still returned.
func ParseOpcodes(stream []byte, destLength int) ([]Opcode, int, error) {
	if destLength < 0 {
		return nil, 0, gsla.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("destination length can't be negative, got %d", destLength))
	}

	opcodes := []Opcode{}
	produced := 0
	cursor := 0

	for produced < destLength {
		if cursor+headerSize > len(stream) {
			return opcodes, cursor, corruptAt(cursor, "truncated opcode header")
		}

		op := Opcode{StreamPosition: cursor, OutputPosition: produced}
		length, reference := decodeHeader(stream[cursor], stream[cursor+1])
		cursor += headerSize
		op.Length = length

		if length == 0 {
			return opcodes, op.StreamPosition, corruptAt(op.StreamPosition, "zero-length opcode")
		}
		if produced+length > destLength {
			return opcodes, op.StreamPosition, corruptAt(
				op.StreamPosition,
				fmt.Sprintf(
					"opcode writes %d bytes at output offset %d, past the end at %d",
					length,
					produced,
					destLength,
				),
			)
		}

		if reference {
			op.Kind = OpReference
			if cursor+2 > len(stream) {
				return opcodes, op.StreamPosition, corruptAt(op.StreamPosition, "truncated reference offset")
			}
			op.Offset = int(binary.LittleEndian.Uint16(stream[cursor : cursor+2]))
			cursor += 2

			// The first byte copied has to exist already. Later ones may overlap
			// the bytes this opcode is writing.
			if op.Offset >= produced {
				return opcodes, op.StreamPosition, corruptAt(
					op.StreamPosition,
					fmt.Sprintf(
						"reference to offset %d but only %d bytes have been produced",
						op.Offset,
						produced,
					),
				)
			}
		} else {
			op.Kind = OpLiteral
			if cursor+length > len(stream) {
				return opcodes, op.StreamPosition, corruptAt(
					op.StreamPosition,
					fmt.Sprintf(
						"literal of %d bytes but only %d left in stream",
						length,
						len(stream)-cursor,
					),
				)
			}
			cursor += length
		}

		opcodes = append(opcodes, op)
		produced += length
	}
	return opcodes, cursor, nil
}

// Validate checks that `stream` decompresses to exactly `destLength` bytes
// without reading or writing out of bounds, and that nothing follows the last
// opcode.
func Validate(stream []byte, destLength int) error {
	_, consumed, err := ParseOpcodes(stream, destLength)
	if err != nil {
		return err
	}
	if consumed != len(stream) {
		return corruptAt(
			consumed,
			fmt.Sprintf("%d trailing bytes after last opcode", len(stream)-consumed),
		)
	}
	return nil
}

// DecompressChecked validates `stream` and then decompresses it. Unlike
// [Decompress], it never panics on corrupt input.
func DecompressChecked(stream []byte, destLength int) ([]byte, error) {
	if err := Validate(stream, destLength); err != nil {
		return nil, err
	}
	return Decompress(stream, destLength), nil
}

// Summary gives aggregate statistics about a list of opcodes.
type Summary struct {
	Literals         int
	References       int
	LiteralBytes     int
	ReferenceBytes   int
	LongestReference int
	EncodedSize      int
}

// Summarize computes a [Summary] for `opcodes`.
func Summarize(opcodes []Opcode) Summary {
	summary := Summary{}
	for _, op := range opcodes {
		summary.EncodedSize += op.EncodedSize()
		if op.Kind == OpReference {
			summary.References++
			summary.ReferenceBytes += op.Length
			if op.Length > summary.LongestReference {
				summary.LongestReference = op.Length
			}
		} else {
			summary.Literals++
			summary.LiteralBytes += op.Length
		}
	}
	return summary
}

func corruptAt(position int, message string) error {
	return gsla.ErrCorruptStream.WithMessage(
		fmt.Sprintf("stream offset %d: %s", position, message))
}
