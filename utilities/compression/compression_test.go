package compression_test

import (
	"bytes"
	"testing"

	gtesting "github.com/dargueta/gsla/testing"
	c "github.com/dargueta/gsla/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type streamC9nTestData struct {
	Name string
	Data []byte
}

func TestRoundTripStreamCompression(t *testing.T) {
	testData := []streamC9nTestData{
		{"homogenous", bytes.Repeat([]byte{100}, 9174)},
		{"empty", []byte{}},
		{"heterogenous", gtesting.RandomBytes(t, 119)},
		{"frame", gtesting.SyntheticFrame(7)},
	}

	for _, data := range testData {
		t.Run(
			data.Name,
			func(t *testing.T) {
				runRoundTripStreamTest(t, data.Data)
			},
		)
	}
}

func runRoundTripStreamTest(t *testing.T, sourceData []byte) {
	compressedBuffer := make([]byte, c.MaxCompressedLen(len(sourceData)))
	compressedWriter := bytewriter.New(compressedBuffer)

	compressedSize, err := c.CompressStream(bytes.NewReader(sourceData), compressedWriter)
	require.NoError(t, err, "unexpected error while compressing")
	t.Logf("size after compression: %d -> %d", len(sourceData), compressedSize)

	decompressedBuffer := make([]byte, len(sourceData))
	decompressedWriter := bytewriter.New(decompressedBuffer)
	compressedReader := bytes.NewReader(compressedBuffer[:compressedSize])

	n, err := c.DecompressStream(compressedReader, decompressedWriter, len(sourceData))
	require.NoError(t, err, "unexpected error while decompressing")
	assert.EqualValues(t, len(sourceData), n, "decompressed data has wrong size")
	assert.Equal(t, sourceData, decompressedBuffer, "decompressed data is wrong")
}

func TestDecompressStream__Corrupt(t *testing.T) {
	// Literal claiming 5 bytes with only 2 present.
	stream := []byte{0x05, 0x00, 0xAA, 0xBB}
	output := bytes.Buffer{}

	_, err := c.DecompressStream(bytes.NewReader(stream), &output, 5)
	require.Error(t, err)
	assert.Zero(t, output.Len(), "nothing should be written for a corrupt stream")
}
