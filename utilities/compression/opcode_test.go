package compression_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/gsla"
	c "github.com/dargueta/gsla/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitLiteral__Header(t *testing.T) {
	tests := []struct {
		Name           string
		Length         int
		ExpectedHeader []byte
	}{
		{"one byte", 1, []byte{0x01, 0x00}},
		{"low byte full", 0xFF, []byte{0xFF, 0x00}},
		{"needs high byte", 0x1234, []byte{0x34, 0x12}},
		{"maximum", c.MaxOpcodeLength, []byte{0xFF, 0x7F}},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				run := bytes.Repeat([]byte{0xA5}, test.Length)
				dest := make([]byte, test.Length+2)
				encoder := c.NewOpcodeEncoder(dest)

				n, err := encoder.EmitLiteral(run)
				require.NoError(t, err)
				assert.Equal(t, test.Length+2, n, "wrong number of bytes written")
				assert.Equal(t, test.ExpectedHeader, dest[:2], "header is wrong")
				assert.Equal(t, run, dest[2:], "payload is wrong")
				assert.Equal(t, 1, encoder.Literals())
			},
		)
	}
}

func TestEmitReference__Encoding(t *testing.T) {
	tests := []struct {
		Name     string
		Length   int
		Offset   int
		Expected []byte
	}{
		{"minimum", c.MinMatchLength, 0, []byte{0x03, 0x80, 0x00, 0x00}},
		{"offset little endian", 10, 0x1234, []byte{0x0A, 0x80, 0x34, 0x12}},
		{"both bytes", 0x1234, 0xBEEF, []byte{0x34, 0x92, 0xEF, 0xBE}},
		{"maximum", c.MaxOpcodeLength, c.MaxReferenceOffset, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				dest := make([]byte, 4)
				encoder := c.NewOpcodeEncoder(dest)

				n, err := encoder.EmitReference(test.Length, test.Offset)
				require.NoError(t, err)
				assert.Equal(t, 4, n)
				assert.Equal(t, test.Expected, dest)
				assert.Equal(t, 1, encoder.References())
			},
		)
	}
}

func TestOpcodeEncoder__InvalidArguments(t *testing.T) {
	encoder := c.NewOpcodeEncoder(make([]byte, 0x10000))

	_, err := encoder.EmitLiteral([]byte{})
	assert.ErrorIs(t, err, gsla.ErrInvalidArgument, "empty literal")

	_, err = encoder.EmitLiteral(make([]byte, c.MaxOpcodeLength+1))
	assert.ErrorIs(t, err, gsla.ErrInvalidArgument, "oversized literal")

	_, err = encoder.EmitReference(c.MinMatchLength-1, 0)
	assert.ErrorIs(t, err, gsla.ErrInvalidArgument, "reference below minimum length")

	_, err = encoder.EmitReference(c.MaxOpcodeLength+1, 0)
	assert.ErrorIs(t, err, gsla.ErrInvalidArgument, "oversized reference")

	_, err = encoder.EmitReference(5, c.MaxReferenceOffset+1)
	assert.ErrorIs(t, err, gsla.ErrInvalidArgument, "offset out of range")

	_, err = encoder.EmitReference(5, -1)
	assert.ErrorIs(t, err, gsla.ErrInvalidArgument, "negative offset")

	assert.Zero(t, encoder.Len(), "rejected opcodes must not write anything")
}

func TestOpcodeEncoder__BufferTooSmall(t *testing.T) {
	encoder := c.NewOpcodeEncoder(make([]byte, 6))

	n, err := encoder.EmitLiteral([]byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = encoder.EmitReference(3, 0)
	assert.ErrorIs(t, err, gsla.ErrBufferTooSmall)
	assert.Equal(t, 4, encoder.Len())
}
