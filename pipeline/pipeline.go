// Package pipeline converts an animation from raw frames to compressed
// payloads: optional throttling, then compression and round-trip validation
// of every frame, in order.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/gsla"
	"github.com/dargueta/gsla/config"
	"github.com/dargueta/gsla/formats/c2"
	"github.com/dargueta/gsla/formats/container"
	"github.com/dargueta/gsla/report"
	"github.com/dargueta/gsla/throttle"
	"github.com/dargueta/gsla/utilities/compression"
	"github.com/hashicorp/go-multierror"
	"github.com/tliron/commonlog"
)

// The logging backend may be registered after this package is initialized,
// so the logger is fetched per run.
const loggerName = "gsla.pipeline"

// Options controls a conversion.
type Options struct {
	Throttle   bool
	Budget     int
	CellWidth  int
	CellHeight int

	PatternRuns bool
	// Validate decompresses every payload and compares it with the frame it
	// came from.
	Validate bool
	// Baseline records the zstd size of every frame in the statistics.
	Baseline bool
}

// OptionsFromConfig converts file settings into conversion options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Throttle:    cfg.Throttle.Enabled,
		Budget:      cfg.Throttle.Budget,
		CellWidth:   cfg.Throttle.CellWidth,
		CellHeight:  cfg.Throttle.CellHeight,
		PatternRuns: cfg.Compression.PatternRuns,
		Validate:    cfg.Compression.Validate,
		Baseline:    cfg.Output.Baseline,
	}
}

// Result describes a finished conversion.
type Result struct {
	Stats    []report.FrameStats
	Totals   report.Totals
	Throttle throttle.Report
}

// Run reads every frame from `source`, converts it and writes the payload to
// `sink`, then closes `sink`.
//
// Frames may be modified in place by throttling. Round-trip validation
// failures don't stop the conversion; they're collected and returned together
// once every frame has been written, wrapping [gsla.ErrValidationFailed].
func Run(source gsla.FrameSource, sink gsla.PayloadSink, options Options) (Result, error) {
	result := Result{}
	log := commonlog.GetLogger(loggerName)

	count := source.FrameCount()
	if count == 0 {
		return result, gsla.ErrInvalidContainer.WithMessage("animation has no frames")
	}

	frames := make([][]byte, count)
	for i := range frames {
		frames[i] = source.Frame(i)
	}
	log.Infof("converting %d frames", count)

	if options.Throttle {
		throttleReport, err := applyThrottle(log, frames, options)
		result.Throttle = throttleReport
		if err != nil {
			return result, err
		}
	}

	var baseline *report.Baseline
	if options.Baseline {
		var err error
		baseline, err = report.NewBaseline()
		if err != nil {
			return result, err
		}
		defer baseline.Close()
	}

	var compressorOptions []compression.Option
	if options.PatternRuns {
		compressorOptions = append(compressorOptions, compression.WithPatternRuns())
	}
	compressor := compression.NewCompressor(compressorOptions...)

	var failures *multierror.Error
	for i, frame := range frames {
		payload, err := compressor.Compress(frame)
		if err != nil {
			return result, wrapFrame(err, i)
		}

		if options.Validate {
			if err := validate(payload, frame); err != nil {
				log.Errorf("frame %d failed round-trip validation: %s", i, err.Error())
				failures = multierror.Append(failures, wrapFrame(err, i))
			}
		}

		stats, err := report.NewFrameStats(i, len(frame), payload)
		if err != nil {
			if !options.Validate {
				return result, wrapFrame(err, i)
			}
			// Already counted as a validation failure.
			stats = report.FrameStats{Frame: i, RawBytes: len(frame), CompressedBytes: len(payload)}
		}
		if i > 0 {
			stats.DeltaBefore, stats.DeltaAfter = frameDelta(result.Throttle, frames, i)
		}
		if baseline != nil {
			stats.BaselineBytes = baseline.Size(frame)
		}
		result.Stats = append(result.Stats, stats)

		log.Debugf(
			"frame %d: %d -> %d bytes, %d literals, %d references",
			i,
			stats.RawBytes,
			stats.CompressedBytes,
			stats.Literals,
			stats.References,
		)

		if err := sink.WriteFrame(i, payload, len(frame)); err != nil {
			return result, wrapFrame(err, i)
		}
	}

	if err := sink.Close(); err != nil {
		return result, err
	}

	result.Totals = report.Sum(result.Stats)
	log.Infof(
		"wrote %d frames, %d bytes compressed from %d",
		result.Totals.Frames,
		result.Totals.CompressedBytes,
		result.Totals.RawBytes,
	)
	return result, failures.ErrorOrNil()
}

func applyThrottle(
	log commonlog.Logger, frames [][]byte, options Options,
) (throttle.Report, error) {
	th := throttle.New(options.CellWidth, options.CellHeight)
	cellsX, cellsY := th.Grid()
	log.Infof(
		"throttling to %d bytes per frame with %dx%d cells (%d x %d grid)",
		options.Budget,
		options.CellWidth,
		options.CellHeight,
		cellsX,
		cellsY,
	)

	throttleReport, err := th.Apply(frames, options.Budget)
	if err != nil {
		if errors.Is(err, gsla.ErrBudgetUnreachable) {
			log.Errorf("%s", err.Error())
		}
		return throttleReport, err
	}
	log.Infof("throttling reverted %d bytes", throttleReport.TotalReverted())
	return throttleReport, nil
}

// frameDelta returns the difference between frame i and the one before it,
// before and after throttling.
func frameDelta(throttleReport throttle.Report, frames [][]byte, i int) (int, int) {
	if i-1 < len(throttleReport.Pairs) {
		pair := throttleReport.Pairs[i-1]
		return pair.Before, pair.After
	}

	delta, err := throttle.ByteDifference(frames[i-1], frames[i])
	if err != nil {
		// Not a full frame, so there's no pixel region to compare.
		return 0, 0
	}
	return delta, delta
}

func validate(payload, frame []byte) error {
	decoded, err := compression.DecompressChecked(payload, len(frame))
	if err != nil {
		return gsla.ErrValidationFailed.Wrap(err)
	}

	if !bytes.Equal(decoded, frame) {
		first := 0
		for first < len(frame) && decoded[first] == frame[first] {
			first++
		}
		return gsla.ErrValidationFailed.WithMessage(
			fmt.Sprintf("decompressed data differs starting at byte %d", first))
	}
	return nil
}

func wrapFrame(err error, index int) error {
	if kind, ok := err.(gsla.Error); ok {
		return kind.WithMessage(fmt.Sprintf("frame %d", index))
	}
	return err
}

////////////////////////////////////////////////////////////////////////////////

// Convert reads a C2 animation from `input` and writes a packaged animation
// to `output`.
func Convert(input io.Reader, output io.WriteSeeker, options Options) (Result, error) {
	source, err := c2.Load(input)
	if err != nil {
		return Result{}, err
	}

	writer, err := container.NewWriter(output, container.DefaultInfo(source.Timing()))
	if err != nil {
		return Result{}, err
	}
	return Run(source, writer, options)
}
