// Package report collects per-frame statistics from a conversion and saves
// them as CSV.
package report

import (
	"io"

	"github.com/dargueta/gsla"
	"github.com/dargueta/gsla/utilities/compression"
	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"
)

// FrameStats describes how one frame was converted.
type FrameStats struct {
	Frame            int `csv:"frame"`
	RawBytes         int `csv:"raw_bytes"`
	CompressedBytes  int `csv:"compressed_bytes"`
	Literals         int `csv:"literals"`
	References       int `csv:"references"`
	LiteralBytes     int `csv:"literal_bytes"`
	ReferenceBytes   int `csv:"reference_bytes"`
	LongestReference int `csv:"longest_reference"`
	// DeltaBefore and DeltaAfter are the number of pixel bytes that differ
	// from the previous frame before and after throttling. Both are 0 for the
	// first frame.
	DeltaBefore int `csv:"delta_before"`
	DeltaAfter  int `csv:"delta_after"`
	// BaselineBytes is the size of the raw frame compressed with zstd, or 0
	// if no baseline was computed.
	BaselineBytes int `csv:"zstd_bytes"`
}

// NewFrameStats fills in the size and opcode counts for frame `index` by
// parsing its compressed payload.
func NewFrameStats(index int, rawLength int, payload []byte) (FrameStats, error) {
	opcodes, _, err := compression.ParseOpcodes(payload, rawLength)
	if err != nil {
		return FrameStats{}, err
	}

	summary := compression.Summarize(opcodes)
	return FrameStats{
		Frame:            index,
		RawBytes:         rawLength,
		CompressedBytes:  len(payload),
		Literals:         summary.Literals,
		References:       summary.References,
		LiteralBytes:     summary.LiteralBytes,
		ReferenceBytes:   summary.ReferenceBytes,
		LongestReference: summary.LongestReference,
	}, nil
}

// Ratio returns the compressed size as a fraction of the raw size.
func (s FrameStats) Ratio() float64 {
	if s.RawBytes == 0 {
		return 0
	}
	return float64(s.CompressedBytes) / float64(s.RawBytes)
}

// Totals aggregates statistics over every frame of an animation.
type Totals struct {
	Frames          int
	RawBytes        int
	CompressedBytes int
	BaselineBytes   int
	Literals        int
	References      int
	Reverted        int
	LargestFrame    int
}

// Sum adds up `stats`.
func Sum(stats []FrameStats) Totals {
	totals := Totals{Frames: len(stats)}
	for _, s := range stats {
		totals.RawBytes += s.RawBytes
		totals.CompressedBytes += s.CompressedBytes
		totals.BaselineBytes += s.BaselineBytes
		totals.Literals += s.Literals
		totals.References += s.References
		totals.Reverted += s.DeltaBefore - s.DeltaAfter
		if s.CompressedBytes > totals.LargestFrame {
			totals.LargestFrame = s.CompressedBytes
		}
	}
	return totals
}

// WriteCSV writes `stats` to `output` with a header row.
func WriteCSV(output io.Writer, stats []FrameStats) error {
	err := gocsv.Marshal(stats, output)
	if err != nil {
		return gsla.ErrIOFailed.Wrap(err)
	}
	return nil
}

// ReadCSV reads statistics written by [WriteCSV].
func ReadCSV(input io.Reader) ([]FrameStats, error) {
	stats := []FrameStats{}
	err := gocsv.Unmarshal(input, &stats)
	if err != nil {
		return nil, gsla.ErrIOFailed.Wrap(err)
	}
	return stats, nil
}

////////////////////////////////////////////////////////////////////////////////

// Baseline measures how well a general-purpose compressor does on the same
// frames, for comparison.
type Baseline struct {
	encoder *zstd.Encoder
	scratch []byte
}

// NewBaseline creates a zstd encoder at its default level.
func NewBaseline() (*Baseline, error) {
	encoder, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		return nil, gsla.ErrNotSupported.Wrap(err)
	}
	return &Baseline{encoder: encoder}, nil
}

// Size returns the zstd-compressed size of `raw`.
func (b *Baseline) Size(raw []byte) int {
	b.scratch = b.encoder.EncodeAll(raw, b.scratch[:0])
	return len(b.scratch)
}

// Close releases the encoder's resources.
func (b *Baseline) Close() error {
	err := b.encoder.Close()
	if err != nil {
		return gsla.ErrIOFailed.Wrap(err)
	}
	return nil
}
