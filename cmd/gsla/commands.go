package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dargueta/gsla/config"
	"github.com/dargueta/gsla/formats/container"
	"github.com/dargueta/gsla/pipeline"
	"github.com/dargueta/gsla/report"
	"github.com/dargueta/gsla/utilities/compression"
	"github.com/urfave/cli/v2"
)

var convertFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "settings file; defaults to " + config.FileName + " next to the input if present",
	},
	&cli.BoolFlag{Name: "throttle", Usage: "limit how much each frame changes"},
	&cli.IntFlag{Name: "budget", Usage: "maximum changed pixel bytes per frame"},
	&cli.IntFlag{Name: "cell-width", Usage: "throttle cell width in pixels"},
	&cli.IntFlag{Name: "cell-height", Usage: "throttle cell height in pixels"},
	&cli.BoolFlag{Name: "pattern-runs", Usage: "detect repeating patterns when compressing"},
	&cli.BoolFlag{Name: "no-validate", Usage: "skip round-trip validation"},
	&cli.StringFlag{Name: "stats", Usage: "write per-frame statistics to this CSV file"},
	&cli.BoolFlag{Name: "baseline", Usage: "include zstd sizes in the statistics"},
}

func loadSettings(context *cli.Context, inputPath string) (config.Config, error) {
	path := context.String("config")
	if path == "" {
		candidate := filepath.Join(filepath.Dir(inputPath), config.FileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	cfg := config.Default()
	if path != "" {
		log.Infof("reading settings from %s", path)
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if context.IsSet("throttle") {
		cfg.Throttle.Enabled = context.Bool("throttle")
	}
	if context.IsSet("budget") {
		cfg.Throttle.Budget = context.Int("budget")
		cfg.Throttle.Enabled = true
	}
	if context.IsSet("cell-width") {
		cfg.Throttle.CellWidth = context.Int("cell-width")
	}
	if context.IsSet("cell-height") {
		cfg.Throttle.CellHeight = context.Int("cell-height")
	}
	if context.IsSet("pattern-runs") {
		cfg.Compression.PatternRuns = context.Bool("pattern-runs")
	}
	if context.Bool("no-validate") {
		cfg.Compression.Validate = false
	}
	if context.IsSet("stats") {
		cfg.Output.Stats = context.String("stats")
	}
	if context.IsSet("baseline") {
		cfg.Output.Baseline = context.Bool("baseline")
	}
	return cfg, cfg.Validate()
}

func convertAnimation(context *cli.Context) error {
	if context.NArg() != 2 {
		return cli.Exit("convert needs an input and an output file", 1)
	}
	inputPath := context.Args().Get(0)
	outputPath := context.Args().Get(1)

	cfg, err := loadSettings(context, inputPath)
	if err != nil {
		return err
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer output.Close()

	result, err := pipeline.Convert(input, output, pipeline.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	if cfg.Output.Stats != "" {
		statsFile, err := os.Create(cfg.Output.Stats)
		if err != nil {
			return err
		}
		defer statsFile.Close()
		if err := report.WriteCSV(statsFile, result.Stats); err != nil {
			return err
		}
	}

	totals := result.Totals
	fmt.Printf(
		"%d frames, %d bytes -> %d bytes, largest frame %d bytes\n",
		totals.Frames,
		totals.RawBytes,
		totals.CompressedBytes,
		totals.LargestFrame,
	)
	if totals.BaselineBytes > 0 {
		fmt.Printf("zstd baseline: %d bytes\n", totals.BaselineBytes)
	}
	if cfg.Throttle.Enabled {
		fmt.Printf("throttling reverted %d bytes\n", totals.Reverted)
	}
	return nil
}

func openContainer(path string) (*container.Animation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return container.Read(file)
}

func inspectContainer(context *cli.Context) error {
	if context.NArg() != 1 {
		return cli.Exit("inspect needs exactly one file", 1)
	}

	animation, err := openContainer(context.Args().Get(0))
	if err != nil {
		return err
	}

	info := animation.Info
	fmt.Printf(
		"version %d, %d frames, %dx%d, %d bytes per frame, timing %d\n",
		animation.Version,
		animation.FrameCount(),
		info.Width,
		info.Height,
		info.FrameLength,
		info.Timing,
	)
	fmt.Println("frame  bytes  literals  references  longest")

	for i := 0; i < animation.FrameCount(); i++ {
		payload := animation.Payload(i)
		opcodes, _, err := compression.ParseOpcodes(payload, int(info.FrameLength))
		if err != nil {
			fmt.Printf("%5d  %5d  corrupt: %s\n", i, len(payload), err.Error())
			continue
		}

		summary := compression.Summarize(opcodes)
		fmt.Printf(
			"%5d  %5d  %8d  %10d  %7d\n",
			i,
			len(payload),
			summary.Literals,
			summary.References,
			summary.LongestReference,
		)
	}
	return nil
}

func extractFrames(context *cli.Context) error {
	if context.NArg() != 2 {
		return cli.Exit("extract needs a container and an output directory", 1)
	}

	animation, err := openContainer(context.Args().Get(0))
	if err != nil {
		return err
	}

	outputDir := context.Args().Get(1)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	for i := 0; i < animation.FrameCount(); i++ {
		frame, err := animation.DecodeFrame(i)
		if err != nil {
			return err
		}

		path := filepath.Join(outputDir, fmt.Sprintf("frame_%04d.c1", i))
		if err := os.WriteFile(path, frame, 0o644); err != nil {
			return err
		}
		log.Debugf("wrote %s", path)
	}
	fmt.Printf("extracted %d frames to %s\n", animation.FrameCount(), outputDir)
	return nil
}
