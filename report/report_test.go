package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dargueta/gsla"
	"github.com/dargueta/gsla/report"
	gtesting "github.com/dargueta/gsla/testing"
	"github.com/dargueta/gsla/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrameStats(t *testing.T) {
	// "ab" + reference copying 8 bytes + "z"
	payload := []byte{
		0x02, 0x00, 'a', 'b',
		0x08, 0x80, 0x00, 0x00,
		0x01, 0x00, 'z',
	}

	stats, err := report.NewFrameStats(3, 11, payload)
	require.NoError(t, err)
	assert.Equal(
		t,
		report.FrameStats{
			Frame:            3,
			RawBytes:         11,
			CompressedBytes:  11,
			Literals:         2,
			References:       1,
			LiteralBytes:     3,
			ReferenceBytes:   8,
			LongestReference: 8,
		},
		stats,
	)
	assert.InDelta(t, 1.0, stats.Ratio(), 0.0001)
}

func TestNewFrameStats__Corrupt(t *testing.T) {
	_, err := report.NewFrameStats(0, 10, []byte{0x01, 0x00})
	assert.ErrorIs(t, err, gsla.ErrCorruptStream)
}

func TestCSV__RoundTrip(t *testing.T) {
	stats := []report.FrameStats{
		{Frame: 0, RawBytes: 32768, CompressedBytes: 900, Literals: 10, References: 40},
		{
			Frame:           1,
			RawBytes:        32768,
			CompressedBytes: 1200,
			DeltaBefore:     500,
			DeltaAfter:      100,
			BaselineBytes:   1500,
		},
	}

	buffer := bytes.Buffer{}
	require.NoError(t, report.WriteCSV(&buffer, stats))

	firstLine, _, _ := strings.Cut(buffer.String(), "\n")
	assert.Equal(
		t,
		"frame,raw_bytes,compressed_bytes,literals,references,literal_bytes,"+
			"reference_bytes,longest_reference,delta_before,delta_after,zstd_bytes",
		strings.TrimSpace(firstLine),
	)

	decoded, err := report.ReadCSV(&buffer)
	require.NoError(t, err)
	assert.Equal(t, stats, decoded)
}

func TestSum(t *testing.T) {
	totals := report.Sum([]report.FrameStats{
		{RawBytes: 10, CompressedBytes: 4, Literals: 1, DeltaBefore: 0, DeltaAfter: 0},
		{RawBytes: 10, CompressedBytes: 7, References: 2, DeltaBefore: 9, DeltaAfter: 5},
		{RawBytes: 10, CompressedBytes: 6, BaselineBytes: 3, DeltaBefore: 3, DeltaAfter: 3},
	})

	assert.Equal(
		t,
		report.Totals{
			Frames:          3,
			RawBytes:        30,
			CompressedBytes: 17,
			BaselineBytes:   3,
			Literals:        1,
			References:      2,
			Reverted:        4,
			LargestFrame:    7,
		},
		totals,
	)
}

func TestBaseline(t *testing.T) {
	baseline, err := report.NewBaseline()
	require.NoError(t, err)
	defer baseline.Close()

	zeros := make([]byte, gsla.FrameSize)
	zeroSize := baseline.Size(zeros)
	assert.Greater(t, zeroSize, 0)
	assert.Less(t, zeroSize, 200, "zstd should crush a blank frame")

	frame := gtesting.SyntheticFrame(2)
	assert.Less(t, baseline.Size(frame), len(frame))

	// Baseline sizes shouldn't depend on what was measured before.
	assert.Equal(t, zeroSize, baseline.Size(zeros))

	payload, err := compression.Compress(frame)
	require.NoError(t, err)
	stats, err := report.NewFrameStats(0, len(frame), payload)
	require.NoError(t, err)
	assert.Less(t, stats.Ratio(), 1.0)
}
